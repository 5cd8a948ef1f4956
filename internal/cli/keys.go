package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/LeJamon/goPredictd/internal/core/tx/oracle"
	"github.com/LeJamon/goPredictd/internal/crypto"
	"github.com/spf13/cobra"
)

var (
	keyType    string
	seedHex    string
	proposalID uint64
	resultCur  uint32
	voteWeight uint64
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an account keypair",
	Long:  `Generate a random seed and print the derived keypair and account id as JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kt, err := crypto.ParseKeyType(keyType)
		if err != nil {
			return err
		}
		seed, err := crypto.RandomSeed()
		if err != nil {
			return err
		}
		kp, err := crypto.KeyPairFromSeed(kt, seed)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]string{
			"key_type":    kt.String(),
			"seed":        hex.EncodeToString(seed),
			"public_key":  kp.PublicHex(),
			"private_key": kp.PrivateHex(),
			"account":     kp.AccountID().String(),
		})
	},
}

var signResultCmd = &cobra.Command{
	Use:   "sign-result",
	Short: "Sign an oracle result upload",
	Long: `Build an UploadResult transaction signed with the node's seed and print
it as JSON, ready to be passed to the submit method.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := keyPairFromFlags()
		if err != nil {
			return err
		}
		u, err := oracle.NewUploadResult(kp, proposalID, resultCur, voteWeight)
		if err != nil {
			return err
		}
		if err := u.Validate(); err != nil {
			return err
		}
		return printJSON(cmd, u)
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(signResultCmd)

	for _, c := range []*cobra.Command{keygenCmd, signResultCmd} {
		c.Flags().StringVar(&keyType, "key-type", crypto.KeyTypeSecp256k1.String(), "secp256k1 or ed25519")
	}
	signResultCmd.Flags().StringVar(&seedHex, "seed", "", "hex seed printed by keygen")
	signResultCmd.Flags().Uint64Var(&proposalID, "proposal", 0, "proposal id")
	signResultCmd.Flags().Uint32Var(&resultCur, "result", 0, "winning outcome currency")
	signResultCmd.Flags().Uint64Var(&voteWeight, "weight", 0, "stake committed to the vote")
	_ = signResultCmd.MarkFlagRequired("seed")
	_ = signResultCmd.MarkFlagRequired("result")
	_ = signResultCmd.MarkFlagRequired("weight")
}

func keyPairFromFlags() (*crypto.KeyPair, error) {
	kt, err := crypto.ParseKeyType(keyType)
	if err != nil {
		return nil, err
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return crypto.KeyPairFromSeed(kt, seed)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
