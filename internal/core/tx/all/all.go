// Package all registers every transaction type with the tx registry.
package all

import (
	_ "github.com/LeJamon/goPredictd/internal/core/tx/market"
	_ "github.com/LeJamon/goPredictd/internal/core/tx/oracle"
	_ "github.com/LeJamon/goPredictd/internal/core/tx/params"
	_ "github.com/LeJamon/goPredictd/internal/core/tx/payment"
	_ "github.com/LeJamon/goPredictd/internal/core/tx/proposal"
)
