// Package main provides skillctl, a local driver for the unit converter skill.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"unit-converter-skill/internal/common/locale"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/common/validation"
	"unit-converter-skill/internal/conversion"
	"unit-converter-skill/internal/models"
	"unit-converter-skill/internal/skill"
)

// Version information (set at build time)
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "skillctl",
		Short:        "Drive the unit converter skill locally",
		Long:         "skillctl dispatches request envelopes through the skill without the HTTP endpoint or workflow engine.",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "log handler activity to stderr")

	rootCmd.AddCommand(newInvokeCmd(), newConvertCmd(), newUnitsCmd())
	return rootCmd
}

func newDispatcher(cmd *cobra.Command) *skill.Dispatcher {
	log := logger.NewNoOpLogger()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log = logger.NewStructured("debug", "console")
	}
	return skill.New(skill.Dependencies{Logger: log})
}

// invoke command - dispatch a raw envelope
func newInvokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke [envelope.json]",
		Short: "Dispatch a request envelope and print the response envelope",
		Long:  "Reads a request envelope from the given file, or stdin when omitted or \"-\", and prints the response envelope as JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readEnvelope(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			if validate, _ := cmd.Flags().GetBool("validate"); validate {
				validator, err := validation.NewEnvelopeValidator()
				if err != nil {
					return err
				}
				if err := validator.Validate(body); err != nil {
					return err
				}
			}

			var env models.RequestEnvelope
			if err := json.Unmarshal(body, &env); err != nil {
				return fmt.Errorf("invalid envelope: %w", err)
			}

			resp := newDispatcher(cmd).Dispatch(context.Background(), &env)
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().Bool("validate", true, "check the envelope against the request schema first")
	return cmd
}

// convert command - build a ConvertUnitsIntent envelope from flags
func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Speak a conversion the way the skill would",
		Example: `  skillctl convert --locale es-ES --from metros --to kilómetros --value 10
  skillctl convert --from feet --to yards --value 9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, _ := cmd.Flags().GetString("locale")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			value, _ := cmd.Flags().GetString("value")
			asJSON, _ := cmd.Flags().GetBool("json")

			env := convertEnvelope(tag, from, to, value)
			resp := newDispatcher(cmd).Dispatch(context.Background(), env)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), resp.Speech())
			return err
		},
	}
	cmd.Flags().String("locale", "en-US", "request locale")
	cmd.Flags().String("from", "", "source unit as spoken")
	cmd.Flags().String("to", "", "destination unit as spoken")
	cmd.Flags().String("value", "", "amount to convert")
	cmd.Flags().Bool("json", false, "print the full response envelope")
	return cmd
}

// units command - print the table a locale converts with
func newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the unit pairs available to a locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, _ := cmd.Flags().GetString("locale")
			class := locale.Classify(tag)
			table := conversion.TableFor(class)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", tag, class)
			for _, from := range table.Units() {
				pairs := make([]string, 0, len(table[from]))
				for _, to := range table.Destinations(from) {
					factor, _ := table.Factor(from, to)
					pairs = append(pairs, fmt.Sprintf("%s x%s", to, conversion.FormatValue(factor)))
				}
				fmt.Fprintf(out, "  %s -> %s\n", from, strings.Join(pairs, ", "))
			}
			return nil
		},
	}
	cmd.Flags().String("locale", "en-US", "request locale")
	return cmd
}

func readEnvelope(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return body, nil
	}
	body, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read envelope: %w", err)
	}
	return body, nil
}

func convertEnvelope(tag, from, to, value string) *models.RequestEnvelope {
	slots := map[string]models.Slot{}
	for name, v := range map[string]string{
		models.SlotFromUnit: from,
		models.SlotToUnit:   to,
		models.SlotValue:    value,
	} {
		if v != "" {
			slots[name] = models.Slot{Name: name, Value: v}
		}
	}

	return &models.RequestEnvelope{
		Version: "1.0",
		Request: &models.Request{
			Type:      models.RequestTypeIntent,
			RequestID: "skillctl." + uuid.NewString(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Locale:    tag,
			Intent:    &models.Intent{Name: models.IntentConvertUnits, Slots: slots},
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
