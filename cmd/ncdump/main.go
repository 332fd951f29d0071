// Command ncdump inspects remote NCStream datasets: it prints the
// dataset tree, the text renderings (CDL, NcML, capabilities), and
// fetches variable subsets.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-ncstream/ncstream"
)

var (
	flagUserAgent string
	flagTimeout   time.Duration
)

func main() {
	root := &cobra.Command{
		Use:           "ncdump",
		Short:         "Inspect remote NCStream datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "User-Agent header for requests")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 60*time.Second, "request timeout")

	root.AddCommand(headerCmd(), textCmd("cdl"), textCmd("ncml"), textCmd("capabilities"), getCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ncdump:", err)
		os.Exit(1)
	}
}

func options() []ncstream.Option {
	opts := []ncstream.Option{
		ncstream.WithHTTPClient(&http.Client{Timeout: flagTimeout}),
	}
	if flagUserAgent != "" {
		opts = append(opts, ncstream.WithUserAgent(flagUserAgent))
	}
	return opts
}

func headerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <url>",
		Short: "Print the dataset's group/dimension/variable tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ncstream.Open(cmd.Context(), args[0], options()...)
			if err != nil {
				return err
			}
			defer ds.Close()

			fmt.Printf("dataset %q (version %d)\n", ds.Location(), ds.Version())
			return ncstream.Walk(ds.Group, func(path string, obj interface{}) error {
				switch o := obj.(type) {
				case *ncstream.Group:
					fmt.Printf("group %q\n", path)
					for _, d := range o.Dimensions() {
						suffix := ""
						if d.IsUnlimited() {
							suffix = " (unlimited)"
						}
						if d.IsVlen() {
							suffix = " (vlen)"
						}
						fmt.Printf("  dim  %s = %d%s\n", d.Name(), d.Size(), suffix)
					}
					printAttrs("  ", o.Attributes())
				case *ncstream.Variable:
					fmt.Printf("  var  %s %s %v\n", o.Name(), o.DataType(), o.Shape())
					printAttrs("    ", o.Attributes())
				}
				return nil
			})
		},
	}
}

func printAttrs(indent string, attrs *ncstream.AttributeContainer) {
	for _, name := range attrs.Names() {
		value, _ := attrs.Get(name)
		fmt.Printf("%s:%s = %v\n", indent, name, value)
	}
}

func textCmd(kind string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <url>",
		Short: "Print the dataset's " + kind + " document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := ncstream.NewClient(args[0], options()...)
			var text string
			var err error
			switch kind {
			case "cdl":
				text, err = c.CDL(cmd.Context())
			case "ncml":
				text, err = c.NcML(cmd.Context())
			default:
				text, err = c.Capabilities(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <url> <variable> [selection]",
		Short: "Fetch a variable subset, e.g. get URL Temp '0,1:5,::2'",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ncstream.Open(cmd.Context(), args[0], options()...)
			if err != nil {
				return err
			}
			defer ds.Close()

			v, err := ds.LookupVariable(args[1])
			if err != nil {
				return err
			}

			var sel []ncstream.Index
			if len(args) == 3 {
				sel, err = parseSelection(args[2])
				if err != nil {
					return err
				}
			}

			arr, err := v.Get(cmd.Context(), sel...)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s shape=%v\n", v.Path(), arr.DataType(), arr.Shape())
			return printArray(cmd.Context(), arr)
		},
	}
}

func printArray(_ context.Context, arr *ncstream.Array) error {
	if arr.DataType() == ncstream.TypeString {
		strs, err := arr.Strings()
		if err != nil {
			return err
		}
		for _, s := range strs {
			fmt.Println(s)
		}
		return nil
	}
	if recs := arr.Records(); recs != nil {
		for i, r := range recs {
			fmt.Printf("record %d: %d rows, %d bytes\n", i, r.NumRows, len(r.Data))
		}
		return nil
	}
	fmt.Println(arr.Values())
	return nil
}

// parseSelection parses a comma-joined selection expression: integers,
// python-style start:stop[:step] ranges with any bound omitted, ":" for
// a full slice, "..." for an ellipsis.
func parseSelection(expr string) ([]ncstream.Index, error) {
	var sel []ncstream.Index
	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		switch {
		case token == "..." :
			sel = append(sel, ncstream.Ellipsis())
		case token == ":" || token == "":
			sel = append(sel, ncstream.All())
		case !strings.Contains(token, ":"):
			i, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("selection entry %q: %w", token, err)
			}
			sel = append(sel, ncstream.At(i))
		default:
			ix, err := parseRange(token)
			if err != nil {
				return nil, err
			}
			sel = append(sel, ix)
		}
	}
	return sel, nil
}

func parseRange(token string) (ncstream.Index, error) {
	parts := strings.Split(token, ":")
	if len(parts) > 3 {
		return ncstream.Index{}, fmt.Errorf("selection entry %q: too many colons", token)
	}
	bound := func(s string) (int, bool, error) {
		if s == "" {
			return 0, false, nil
		}
		v, err := strconv.Atoi(s)
		return v, true, err
	}

	start, hasStart, err := bound(parts[0])
	if err != nil {
		return ncstream.Index{}, fmt.Errorf("selection entry %q: %w", token, err)
	}
	stop, hasStop, err := bound(parts[1])
	if err != nil {
		return ncstream.Index{}, fmt.Errorf("selection entry %q: %w", token, err)
	}

	var ix ncstream.Index
	switch {
	case hasStart && hasStop:
		ix = ncstream.Span(start, stop)
	case hasStart:
		ix = ncstream.From(start)
	case hasStop:
		ix = ncstream.To(stop)
	default:
		ix = ncstream.All()
	}

	if len(parts) == 3 && parts[2] != "" {
		step, err := strconv.Atoi(parts[2])
		if err != nil {
			return ncstream.Index{}, fmt.Errorf("selection entry %q: %w", token, err)
		}
		ix = ix.Step(step)
	}
	return ix, nil
}
