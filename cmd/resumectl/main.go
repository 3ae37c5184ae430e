package main

// Call the resume procedures from a terminal:
//   go run ./cmd/resumectl list
//   go run ./cmd/resumectl create --user-id u1 --data '{"name":"Jane"}'

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resume-viewer/internal/resumes"
	"resume-viewer/internal/shared/config"
	"resume-viewer/internal/trpc"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		apiURL string
		client *trpc.Client
	)

	root := &cobra.Command{
		Use:           "resumectl [command]",
		Short:         "List, fetch and create resumes through the API",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if apiURL == "" {
				apiURL = config.Load().APIURL
			}
			client = trpc.NewClient(strings.TrimRight(apiURL, "/")+trpc.PathPrefix, nil)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (defaults to API_URL)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List every resume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var items []resumes.Resume
			if err := client.Query(cmd.Context(), "resume.list", nil, &items); err != nil {
				return describe(err)
			}
			if items == nil {
				items = []resumes.Resume{}
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Fetch one resume by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var item *resumes.Resume
			if err := client.Query(cmd.Context(), "resume.get", map[string]string{"id": args[0]}, &item); err != nil {
				return describe(err)
			}
			if item == nil {
				return fmt.Errorf("no resume with id %s", args[0])
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}

	var (
		userID   string
		data     string
		dataFile string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a resume from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := readPayload(cmd.InOrStdin(), data, dataFile)
			if err != nil {
				return err
			}
			var created resumes.Resume
			input := map[string]any{"userId": userID, "resumeData": payload}
			if err := client.Mutate(cmd.Context(), "resume.create", input, &created); err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	create.Flags().StringVar(&userID, "user-id", "", "owner of the resume")
	create.Flags().StringVar(&data, "data", "", "resume document as inline JSON")
	create.Flags().StringVarP(&dataFile, "file", "f", "", "read the resume document from a file (- for stdin)")
	_ = create.MarkFlagRequired("user-id")
	create.MarkFlagsMutuallyExclusive("data", "file")

	root.AddCommand(list, get, create)
	return root
}

func readPayload(stdin io.Reader, inline, file string) (json.RawMessage, error) {
	var raw []byte
	switch {
	case inline != "":
		raw = []byte(inline)
	case file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		raw = b
	default:
		return nil, errors.New("one of --data or --file is required")
	}
	if !json.Valid(raw) {
		return nil, errors.New("resume document is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func describe(err error) error {
	var te *trpc.Error
	if !errors.As(err, &te) {
		return err
	}
	if len(te.Issues) == 0 {
		return fmt.Errorf("%s: %s", te.Code, te.Message)
	}
	parts := make([]string, 0, len(te.Issues))
	for _, issue := range te.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return fmt.Errorf("%s: %s", te.Code, strings.Join(parts, "; "))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
