package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Global flags
	verbose   bool
	serverURL string
	userID    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "docqactl",
	Short:   "Manage documents and chat with the QA service",
	Version: version,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a document for indexing",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <documentId>",
	Short: "Delete a document and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question against the indexed documents",
	Long: `Ask a question against the indexed documents.

The conversation continues across invocations for the same user, so
follow-up questions can refer to earlier answers.

Examples:
  # Ask with the default user
  docqactl ask "What is the refund policy?"

  # Keep separate conversations per user
  docqactl ask --user alice "Summarize the onboarding doc"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "QA service base URL")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "default-user", "user id for conversation state")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(askCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Minute}
}

func runUpload(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	path := args[0]

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}

	logger.Debug("uploading document", "path", path, "server", serverURL)

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, serverURL+"/api/documents/upload", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := newHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success    bool   `json:"success"`
		DocumentID string `json:"documentId"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("upload failed: %s", result.Message)
	}

	fmt.Printf("uploaded %s as %s\n", filepath.Base(path), result.DocumentID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, serverURL+"/api/documents", nil)
	if err != nil {
		return err
	}

	resp, err := newHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("list failed with status %d", resp.StatusCode)
	}

	var docs []struct {
		ID         string `json:"id"`
		Filename   string `json:"filename"`
		UploadedAt string `json:"uploadedAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("no documents uploaded")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("%s  %s  %s\n", doc.ID, doc.UploadedAt, doc.Filename)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodDelete, serverURL+"/api/documents/"+args[0], nil)
	if err != nil {
		return err
	}

	resp, err := newHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("document not found: %s", args[0])
	}
	// The server replies 204 on success.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete failed with status %d", resp.StatusCode)
	}

	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	payload, err := json.Marshal(map[string]string{
		"userId":   userID,
		"question": args[0],
	})
	if err != nil {
		return err
	}

	logger.Debug("asking question", "user_id", userID, "server", serverURL)

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, serverURL+"/api/chat/ask", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := newHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("ask request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Response     string   `json:"response"`
		Success      bool     `json:"success"`
		ErrorMessage string   `json:"errorMessage"`
		Sources      []string `json:"sources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("ask failed: %s", result.ErrorMessage)
	}

	fmt.Println(result.Response)
	if verbose && len(result.Sources) > 0 {
		fmt.Println("\nsources:")
		for _, src := range result.Sources {
			fmt.Printf("  - %s\n", src)
		}
	}
	return nil
}
