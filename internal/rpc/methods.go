package rpc

// registerAllMethods registers every RPC method.
// This function is called by NewServer to set up the method registry
func (s *Server) registerAllMethods() {
	// Server Information Methods
	s.registry.Register("server_info", &ServerInfoMethod{})
	s.registry.Register("params", &ParamsMethod{})

	// Transaction Methods
	s.registry.Register("submit", &SubmitMethod{})

	// Proposal and Market Methods
	s.registry.Register("proposal", &ProposalMethod{})
	s.registry.Register("pool", &PoolMethod{})
	s.registry.Register("quote_buy", &QuoteBuyMethod{})

	// Account Methods
	s.registry.Register("balance", &BalanceMethod{})
	s.registry.Register("stake", &StakeMethod{})

	// History
	s.registry.Register("events", &EventsMethod{})
}
