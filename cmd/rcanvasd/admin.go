package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents on a running rcanvasd server",
}

func init() {
	documentCmd.PersistentFlags().String("server", "http://127.0.0.1:8787", "Base URL of the running rcanvasd admin API")

	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentOpenSessionCmd)
	documentCmd.AddCommand(documentCloseSessionCmd)
	documentCmd.AddCommand(documentCommitCmd)
}

var documentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new empty document",
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminRequest(cmd, http.MethodPost, "/admin/documents", nil)
	},
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known document",
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminRequest(cmd, http.MethodGet, "/admin/documents", nil)
	},
}

var documentGetCmd = &cobra.Command{
	Use:   "get <file-id>",
	Short: "Show a document's live or persisted state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminRequest(cmd, http.MethodGet, "/admin/documents/"+args[0], nil)
	},
}

var documentOpenSessionCmd = &cobra.Command{
	Use:   "open-session <file-id>",
	Short: "Open a manual-commit session for a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminRequest(cmd, http.MethodPost, "/admin/documents/"+args[0]+"/session", nil)
	},
}

var documentCloseSessionCmd = &cobra.Command{
	Use:   "close-session <file-id>",
	Short: "Close a document's manual-commit session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminRequest(cmd, http.MethodDelete, "/admin/documents/"+args[0]+"/session", nil)
	},
}

var documentCommitCmd = &cobra.Command{
	Use:   "commit <file-id>",
	Short: "Commit the head of a manual-commit document's pending queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminRequest(cmd, http.MethodPost, "/admin/documents/"+args[0]+"/commit", nil)
	},
}

func adminRequest(cmd *cobra.Command, method, path string, body []byte) error {
	server, _ := cmd.Flags().GetString("server")

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(method, server+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, string(bytes.TrimSpace(data)))
	}
	if len(data) == 0 {
		fmt.Println(resp.Status)
		return nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
