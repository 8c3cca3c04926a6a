package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	automaton "github.com/geange/fa"
	"github.com/geange/fa/internal/envconfig"
	"github.com/geange/fa/internal/logutil"
)

// readLine reads the single input line of a command. Surrounding whitespace is dropped.
func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no input: expected one line on standard input")
	}
	return line, nil
}

func readAutomaton(cmd *cobra.Command) (*automaton.Automaton, error) {
	line, err := readLine(cmd)
	if err != nil {
		return nil, err
	}
	return automaton.Build(line)
}

func writeAutomaton(cmd *cobra.Command, a *automaton.Automaton) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format == envconfig.FormatDOT {
		return automaton.WriteDOT(cmd.OutOrStdout(), a)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), a.String())
	return err
}

func workLimit(cmd *cobra.Command) (int, error) {
	return cmd.Flags().GetInt("work-limit")
}

func DeterminizeHandler(cmd *cobra.Command, args []string) error {
	a, err := readAutomaton(cmd)
	if err != nil {
		return err
	}
	limit, err := workLimit(cmd)
	if err != nil {
		return err
	}
	d, err := automaton.Determinize(a, limit)
	if err != nil {
		return err
	}
	return writeAutomaton(cmd, d)
}

func MinimizeHandler(cmd *cobra.Command, args []string) error {
	a, err := readAutomaton(cmd)
	if err != nil {
		return err
	}
	limit, err := workLimit(cmd)
	if err != nil {
		return err
	}
	m, err := automaton.Minimize(a, limit)
	if err != nil {
		return err
	}
	return writeAutomaton(cmd, m)
}

func RegexHandler(cmd *cobra.Command, args []string) error {
	line, err := readLine(cmd)
	if err != nil {
		return err
	}
	a, err := automaton.CompileRegexp(line)
	if err != nil {
		return err
	}

	minimize, err := cmd.Flags().GetBool("minimize")
	if err != nil {
		return err
	}
	if minimize {
		limit, err := workLimit(cmd)
		if err != nil {
			return err
		}
		if a, err = automaton.Minimize(a, limit); err != nil {
			return err
		}
	}
	return writeAutomaton(cmd, a)
}

func MatchHandler(cmd *cobra.Command, args []string) error {
	line, err := readLine(cmd)
	if err != nil {
		return err
	}

	isRegex, err := cmd.Flags().GetBool("regex")
	if err != nil {
		return err
	}
	var a *automaton.Automaton
	if isRegex {
		a, err = automaton.CompileRegexp(line)
	} else {
		a, err = automaton.Build(line)
	}
	if err != nil {
		return err
	}

	limit, err := workLimit(cmd)
	if err != nil {
		return err
	}
	r, err := automaton.NewRunAutomaton(a, limit)
	if err != nil {
		return err
	}

	// RunAutomaton is read-only, so words are matched in parallel and printed in order.
	accepted := make([]bool, len(args))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, word := range args {
		g.Go(func() error {
			accepted[i] = r.Run(word)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, ok := range accepted {
		result := "reject"
		if ok {
			result = "accept"
		}
		slog.Debug("match", "word", args[i], "result", result)
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}
	return nil
}

func EnvHandler(cmd *cobra.Command, args []string) error {
	vars := envconfig.AsMap()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, name := range names {
		v := vars[name]
		table.Append([]string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
	}
	table.Render()
	return nil
}

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fa",
		Short: "Finite automaton toolkit",
		Long: "Determinize, minimize and match finite automata given in the canonical text form\n" +
			"<count>;<initial>;{<finals>};{<alphabet>};<source>,<symbol>,<target>;...",
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Disable usage printing on errors
			cmd.SilenceUsage = true

			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			if err := envconfig.ValidateFormat(format); err != nil {
				return err
			}

			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return err
			}
			trace, err := cmd.Flags().GetBool("trace")
			if err != nil {
				return err
			}
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), logutil.Level(debug, trace)))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("format", envconfig.Format, "Output format (text or dot)")
	rootCmd.PersistentFlags().Int("work-limit", envconfig.WorkLimit, "Determinization work limit, 0 for none")
	rootCmd.PersistentFlags().Bool("debug", envconfig.Debug, "Log debug information to stderr")
	rootCmd.PersistentFlags().Bool("trace", envconfig.Trace, "Log every discovered state to stderr")

	cobra.EnableCommandSorting = false

	determinizeCmd := &cobra.Command{
		Use:   "determinize",
		Short: "Convert an automaton read from stdin into an equivalent deterministic one",
		Args:  cobra.NoArgs,
		RunE:  DeterminizeHandler,
	}

	minimizeCmd := &cobra.Command{
		Use:   "minimize",
		Short: "Minimize an automaton read from stdin",
		Args:  cobra.NoArgs,
		RunE:  MinimizeHandler,
	}

	regexCmd := &cobra.Command{
		Use:   "regex",
		Short: "Compile a regular expression read from stdin into a deterministic automaton",
		Long: "Compile a regular expression read from stdin into a deterministic automaton.\n" +
			"'|' is union, '*' is repetition, '(' and ')' group and '&' is the empty string.",
		Args: cobra.NoArgs,
		RunE: RegexHandler,
	}
	regexCmd.Flags().Bool("minimize", false, "Minimize the compiled automaton")

	matchCmd := &cobra.Command{
		Use:   "match WORD...",
		Short: "Print accept or reject for every word against an automaton read from stdin",
		Args:  cobra.MinimumNArgs(1),
		RunE:  MatchHandler,
	}
	matchCmd.Flags().Bool("regex", false, "Read a regular expression instead of an automaton")

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Show the environment variables fa reads",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}

	rootCmd.AddCommand(
		determinizeCmd,
		minimizeCmd,
		regexCmd,
		matchCmd,
		envCmd,
	)

	return rootCmd
}
