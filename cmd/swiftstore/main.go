// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-swiftstore.
//
// go-swiftstore is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-swiftstore/pkg/cli"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/swift"
	"github.com/jeremyhahn/go-swiftstore/pkg/transport"
	"github.com/jeremyhahn/go-swiftstore/pkg/version"
)

var (
	cfgFile      string
	viperConfig  *viper.Viper
	globalConfig *cli.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "swiftstore",
	Short: "A CLI tool for a Swift-style object storage container",
	Long: `swiftstore lists, fetches, uploads and annotates objects in one container
of a Swift-style object storage account (X-Auth-Token authenticated).

Configuration can be provided via:
  - Command-line flags (highest priority)
  - Environment variables (SWIFTSTORE_*, e.g. SWIFTSTORE_TOKEN)
  - Configuration file (~/.swiftstore.yaml or ./.swiftstore.yaml)
  - Default values (lowest priority)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		viperConfig, err = cli.InitConfig(cfgFile)
		if err != nil {
			return err
		}

		if err := viperConfig.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}

		globalConfig = cli.GetConfig(viperConfig)
		return nil
	},
}

// outputFormat is the validated --output-format, falling back to text.
func outputFormat() cli.OutputFormat {
	if globalConfig == nil {
		return cli.FormatText
	}
	format, err := cli.ParseOutputFormat(globalConfig.OutputFormat)
	if err != nil {
		return cli.FormatText
	}
	return format
}

// reportedError marks an error already printed by fail.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// fail prints err in the selected output format and returns it.
func fail(err error) error {
	fmt.Fprint(os.Stderr, cli.FormatError(err, outputFormat()))
	return reportedError{err}
}

// withContext builds a command context, runs fn and closes it.
func withContext(fn func(*cli.CommandContext) error) error {
	ctx, err := cli.NewCommandContext(globalConfig)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = ctx.Close() }()

	if err := fn(ctx); err != nil {
		return fail(err)
	}
	return nil
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show container metadata",
	Long: `Show the X-Container-Meta-* metadata of the configured container.
The container is opened with a HEAD request; --refresh re-reads it.`,
	Example: `  swiftstore info                                # Show container metadata
  swiftstore info -o table                       # As a table`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh") //nolint:errcheck // flags are validated by cobra

		return withContext(func(ctx *cli.CommandContext) error {
			meta, err := ctx.InfoCommand(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			fmt.Print(cli.FormatMetadata(globalConfig.Container, meta, outputFormat()))
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List objects in the container",
	Long: `List objects in the container, optionally filtered by prefix.
The listing format (plain, json, xml) is taken from --format; structured
formats include size and modification time. --all pages through the
whole container using markers.`,
	Example: `  swiftstore list                                # First page of names
  swiftstore list photos/ --delimiter /          # One level of pseudo-directories
  swiftstore list --format json -o table         # Sizes and dates as a table
  swiftstore list --all --limit 1000             # Every name, 1000 per request`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := listQuery(cmd, args)
		if err != nil {
			return fail(err)
		}
		all, _ := cmd.Flags().GetBool("all") //nolint:errcheck // flags are validated by cobra

		return withContext(func(ctx *cli.CommandContext) error {
			list := ctx.ListCommand
			if all {
				list = ctx.ListAllCommand
			}
			objects, err := list(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Print(cli.FormatListing(objects, outputFormat()))
			return nil
		})
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <name>",
	Short: "Show an object descriptor",
	Long:  `Look an object up with a one-entry JSON listing and print its descriptor.`,
	Example: `  swiftstore stat photos/cat.jpg                 # Size, type, date and hash
  swiftstore stat photos/cat.jpg -o json         # As JSON`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContext(func(ctx *cli.CommandContext) error {
			info, err := ctx.StatCommand(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(cli.FormatObject(info.Descriptor, outputFormat()))
			return nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <name> [output-file]",
	Short: "Download an object",
	Long: `Download an object. If output-file is not specified or is '-', the content
is written to stdout. Conditional flags send If-* headers; a 304 writes
nothing and a 412 is reported as an error.`,
	Example: `  swiftstore get notes.txt                       # Download to stdout
  swiftstore get notes.txt notes.txt             # Download to file
  swiftstore get notes.txt --if-none-match 0cc175b9c0f1b6a831c399e269772661`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cond, err := conditions(cmd)
		if err != nil {
			return fail(err)
		}
		outputPath := "-"
		if len(args) > 1 {
			outputPath = args[1]
		}

		return withContext(func(ctx *cli.CommandContext) error {
			out := os.Stdout
			if outputPath != "-" {
				file, err := os.Create(outputPath) // #nosec G304 -- user-provided output path
				if err != nil {
					return err
				}
				defer func() { _ = file.Close() }()
				out = file
			}

			info, err := ctx.GetCommand(cmd.Context(), args[0], cond, out)
			if err != nil {
				return err
			}

			if info.StatusCode == http.StatusNotModified {
				fmt.Fprintf(os.Stderr, "'%s' not modified\n", args[0])
				return nil
			}
			if outputPath != "-" {
				msg := fmt.Sprintf("Successfully downloaded '%s' to '%s'", args[0], outputPath)
				fmt.Print(cli.FormatTransfer(msg, info, outputFormat()))
			}
			return nil
		})
	},
}

var putCmd = &cobra.Command{
	Use:   "put <source-file> [name]",
	Short: "Upload a file",
	Long: `Upload a local file. The object name defaults to the file's base name.
Use '-' as the source-file to stream stdin; a name is then required.
Extra request headers are given as --header "Name: value".`,
	Example: `  swiftstore put report.pdf                      # Upload as report.pdf
  swiftstore put report.pdf docs/2024/report.pdf # Upload under a pseudo-directory
  tar c dir | swiftstore put - backups/dir.tar   # Stream from stdin
  swiftstore put a.json --header "X-Object-Meta-Owner: ops"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		headers, err := requestHeaders(cmd)
		if err != nil {
			return fail(err)
		}
		name := ""
		if len(args) > 1 {
			name = args[1]
		}

		return withContext(func(ctx *cli.CommandContext) error {
			result, err := ctx.PutCommand(cmd.Context(), args[0], name, os.Stdin, headers)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Successfully uploaded '%s'", args[0])
			if args[0] == "-" {
				msg = fmt.Sprintf("Successfully uploaded stdin as '%s'", name)
			}
			fmt.Print(cli.FormatTransfer(msg, result.Info, outputFormat()))
			return nil
		})
	},
}

var putContentsCmd = &cobra.Command{
	Use:   "put-contents <name>",
	Short: "Upload stdin as one payload",
	Long: `Read stdin fully into memory and upload it under name with a single
fixed-length request.`,
	Example: `  echo hello | swiftstore put-contents greetings/hello.txt`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headers, err := requestHeaders(cmd)
		if err != nil {
			return fail(err)
		}

		return withContext(func(ctx *cli.CommandContext) error {
			result, err := ctx.PutContentsCommand(cmd.Context(), args[0], os.Stdin, headers)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Successfully uploaded '%s'", args[0])
			fmt.Print(cli.FormatTransfer(msg, result.Info, outputFormat()))
			return nil
		})
	},
}

var metaCmd = &cobra.Command{
	Use:   "meta <name> <key=value>...",
	Short: "Replace object metadata",
	Long:  `Replace the X-Object-Meta-* metadata of an object with the given pairs.`,
	Example: `  swiftstore meta photos/cat.jpg Color=black Owner=ops`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := cli.ParseMetadata(args[1:])
		if err != nil {
			return fail(err)
		}

		return withContext(func(ctx *cli.CommandContext) error {
			if err := ctx.MetaCommand(cmd.Context(), args[0], meta); err != nil {
				return err
			}
			fmt.Print(cli.FormatMetadata(args[0], meta, outputFormat()))
			return nil
		})
	},
}

var mkdirCmd = &cobra.Command{
	Use:     "mkdir <name>",
	Short:   "Create a pseudo-directory",
	Long:    `Create an empty application/directory placeholder object.`,
	Example: `  swiftstore mkdir photos/2024`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContext(func(ctx *cli.CommandContext) error {
			info, err := ctx.MkdirCommand(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Successfully created directory '%s'", args[0])
			fmt.Print(cli.FormatTransfer(msg, info, outputFormat()))
			return nil
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings. The token is masked.`,
	Example: `  swiftstore config                              # Show current config
  swiftstore config -o json                      # Show config as JSON`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(cli.DisplayConfig(globalConfig, outputFormat()))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get())
	},
}

func listQuery(cmd *cobra.Command, args []string) (swift.ListQuery, error) {
	flags := cmd.Flags()
	limit, err := flags.GetInt("limit")
	if err != nil {
		return swift.ListQuery{}, err
	}
	marker, _ := flags.GetString("marker")       //nolint:errcheck // flags are validated by cobra
	path, _ := flags.GetString("path")           //nolint:errcheck // flags are validated by cobra
	delimiter, _ := flags.GetString("delimiter") //nolint:errcheck // flags are validated by cobra

	q := swift.ListQuery{
		Limit:     limit,
		Marker:    marker,
		Path:      path,
		Delimiter: delimiter,
		Format:    common.Format(globalConfig.Format),
	}
	if len(args) > 0 {
		q.Prefix = args[0]
	}
	return q, nil
}

func conditions(cmd *cobra.Command) (cli.Conditions, error) {
	flags := cmd.Flags()
	ifMatch, _ := flags.GetString("if-match")               //nolint:errcheck // flags are validated by cobra
	ifNoneMatch, _ := flags.GetString("if-none-match")      //nolint:errcheck // flags are validated by cobra
	modified, _ := flags.GetString("if-modified-since")     //nolint:errcheck // flags are validated by cobra
	unmodified, _ := flags.GetString("if-unmodified-since") //nolint:errcheck // flags are validated by cobra

	cond := cli.Conditions{IfMatch: ifMatch, IfNoneMatch: ifNoneMatch}
	var err error
	if cond.IfModifiedSince, err = cli.ParseTime(modified); err != nil {
		return cond, fmt.Errorf("invalid --if-modified-since: %w", err)
	}
	if cond.IfUnmodifiedSince, err = cli.ParseTime(unmodified); err != nil {
		return cond, fmt.Errorf("invalid --if-unmodified-since: %w", err)
	}
	return cond, nil
}

func requestHeaders(cmd *cobra.Command) (common.Headers, error) {
	lines, err := cmd.Flags().GetStringArray("header")
	if err != nil {
		return nil, err
	}
	return cli.ParseHeaders(lines)
}

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.swiftstore.yaml)")
	flags.String("url", "", "account storage URL (e.g., https://storage.example.com/v1/AUTH_acct)")
	flags.String("token", "", "X-Auth-Token value")
	flags.StringP("container", "c", "", "container name")
	flags.StringP("format", "f", "plain", "listing format (plain, json, xml)")
	flags.StringP("output-format", "o", "text", "output format (text, json, table)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.Duration("timeout", transport.DefaultTimeout, "request timeout")
	flags.String("ca-file", "", "PEM CA bundle used to verify the server")
	flags.Bool("insecure", false, "skip TLS verification (development only)")
	flags.Float64("rate-limit", 0, "maximum requests per second (0 = unlimited)")
	flags.Bool("detect-content-type", true, "sniff the content type of uploads sent without one")

	infoCmd.Flags().Bool("refresh", false, "re-read the metadata from the service")

	listCmd.Flags().Int("limit", 0, "maximum entries per request (default 10000)")
	listCmd.Flags().String("marker", "", "start after this name")
	listCmd.Flags().String("path", "", "list only direct children of this pseudo-directory")
	listCmd.Flags().String("delimiter", "", "roll names up to this delimiter into subdirs")
	listCmd.Flags().Bool("all", false, "page through every name")

	getCmd.Flags().String("if-match", "", "only download if the ETag matches")
	getCmd.Flags().String("if-none-match", "", "only download if the ETag differs")
	getCmd.Flags().String("if-modified-since", "", "only download if modified after this time (RFC 3339 or HTTP date)")
	getCmd.Flags().String("if-unmodified-since", "", "only download if not modified after this time (RFC 3339 or HTTP date)")

	putCmd.Flags().StringArrayP("header", "H", nil, "extra request header \"Name: value\" (repeatable)")
	putContentsCmd.Flags().StringArrayP("header", "H", nil, "extra request header \"Name: value\" (repeatable)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(putContentsCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
