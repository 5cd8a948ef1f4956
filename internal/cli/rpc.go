package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	rpcURL     string
	rpcTimeout time.Duration
)

// rpcCmd sends one JSON-RPC request to a running node
var rpcCmd = &cobra.Command{
	Use:   "rpc <method> [params-json]",
	Short: "Call a method on a running node",
	Long: `Send a JSON-RPC request to a running node and print the result.

Examples:
  predictd rpc server_info
  predictd rpc proposal '{"proposal_id": 0}'
  predictd rpc submit "{\"tx_json\": $(predictd sign-result ...)}"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRPC,
}

func init() {
	rootCmd.AddCommand(rpcCmd)
	rpcCmd.Flags().StringVar(&rpcURL, "url", "", "node url (default from the [server] section)")
	rpcCmd.Flags().DurationVar(&rpcTimeout, "timeout", 30*time.Second, "request timeout")
}

func runRPC(cmd *cobra.Command, args []string) error {
	url := rpcURL
	if url == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		url = "http://" + cfg.Server.Address() + "/"
	}

	var params json.RawMessage
	if len(args) == 2 {
		params = json.RawMessage(args[1])
		if !json.Valid(params) {
			return fmt.Errorf("params are not valid JSON")
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rpcTimeout)
	defer cancel()

	result, err := callRPC(ctx, url, args[0], params)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if status, _ := result["status"].(string); status != "success" {
		return fmt.Errorf("%v: %v", result["error"], result["error_message"])
	}
	return nil
}

// callRPC posts {"method": method, "params": [params]} and returns the result object.
func callRPC(ctx context.Context, url, method string, params json.RawMessage) (map[string]interface{}, error) {
	req := map[string]interface{}{"method": method}
	if params != nil {
		req["params"] = []json.RawMessage{params}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("rpc request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc request failed: %s: %s", resp.Status, bytes.TrimSpace(data))
	}

	var out struct {
		Result map[string]interface{} `json:"result"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid rpc response: %w", err)
	}
	if out.Result == nil {
		return nil, fmt.Errorf("invalid rpc response: missing result")
	}
	return out.Result, nil
}
