package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alabanza/alabanza/algorithms/tonal"
	"github.com/alabanza/alabanza/logging"
	"github.com/alabanza/alabanza/transpose"
	transposecfg "github.com/alabanza/alabanza/transpose/config"
)

func newTransposeCmd(opts *rootOptions) *cobra.Command {
	var (
		semitones int
		key       string
		to        string
		mode      string
		spelling  string
		summary   bool
	)

	cmd := &cobra.Command{
		Use:   "transpose [file]",
		Short: "Transpose the chords of a song",
		Long: `Reads a song from the file (or stdin when omitted or "-") and writes it
with every chord shifted. Use --semitones for a relative shift or --to for a
target key. Without --key the origin key is estimated from the chords.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			engineCfg := opts.cfg.Engine
			if mode != "" {
				m, err := transposecfg.ParseMode(mode)
				if err != nil {
					return err
				}
				engineCfg.Mode = m
			}
			if spelling != "" {
				engineCfg.Spelling = transposecfg.SpellingPolicy(spelling)
			}
			if err := engineCfg.Validate(); err != nil {
				return err
			}
			engine := transpose.NewEngine(&engineCfg)

			if key == "" {
				if est, ok := engine.EstimateKey(content); ok {
					key = est.Key.Name()
					logging.Debug("Estimated origin key", logging.Fields{
						"key":        key,
						"confidence": est.Confidence,
					})
				}
			}

			var result transpose.Result
			if to != "" {
				if _, err := tonal.ParseKeyStrict(to); err != nil {
					return err
				}
				result = engine.TransposeTo(content, key, to)
			} else {
				result = engine.Transpose(content, semitones, key)
			}

			if _, err := io.WriteString(cmd.OutOrStdout(), result.Content); err != nil {
				return err
			}
			if !strings.HasSuffix(result.Content, "\n") {
				fmt.Fprintln(cmd.OutOrStdout())
			}

			if summary {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s (%+d), %d chords on %d of %d lines\n",
					orDash(result.OriginKey), orDash(result.TargetKey), result.Semitones,
					result.Transposed, result.ChordLines, result.Lines)
			}
			if len(result.Unresolved) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: left unchanged: %s\n", strings.Join(result.Unresolved, " "))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&semitones, "semitones", "s", 0, "Semitones to shift (negative shifts down)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Origin key of the song (e.g. G, Bb, F#m)")
	cmd.Flags().StringVarP(&to, "to", "t", "", "Target key; overrides --semitones")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Chord scanning mode (delimited, undelimited, auto)")
	cmd.Flags().StringVar(&spelling, "spelling", "", "Note spelling policy (scale, preference)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a summary line to stderr")

	return cmd
}

func newKeyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "key [file]",
		Short: "Estimate the key of a song from its chords",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			est, ok := transpose.NewEngine(&opts.cfg.Engine).EstimateKey(content)
			if !ok {
				return fmt.Errorf("no chords found")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (confidence %.2f)\n", est.Key.Name(), est.Confidence)
			return nil
		},
	}
}

func newDistanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance <from> <to>",
		Short: "Show the semitone distance between two keys",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := tonal.ParseKeyStrict(args[0])
			if err != nil {
				return err
			}
			to, err := tonal.ParseKeyStrict(args[1])
			if err != nil {
				return err
			}

			d := tonal.Distance(args[0], args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %+d semitones (shortest %+d, %d steps on the circle of fifths)\n",
				from.Name(), to.Name(), d, tonal.NormalizeDistance(d), tonal.FifthsDistance(from, to))
			return nil
		},
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the selectable keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "major: %s\n", strings.Join(tonal.MajorKeys, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "minor: %s\n", strings.Join(tonal.MinorKeys, " "))
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read song: %w", err)
	}
	return string(data), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
