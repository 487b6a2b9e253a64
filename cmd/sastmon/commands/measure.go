package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yulinchen03/SAST-energy-monitor/cmd/sastmon/internal/bind"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/measexec"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/measure"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/output"
)

// NewMeasureCommand defines the 'measure' command: run one scanner under
// EnergiBridge and report the classified outcome.
func NewMeasureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Run a scanner under EnergiBridge and report energy consumption",
		Long: `Builds the scanner invocation for the selected tool and config level,
wraps it with the EnergiBridge measurement executable, executes the combined
process, and reports the energy summary alongside the scanner's own output.

Exit code 0 covers both a clean scan and a scan that reported findings; the
measurement itself succeeded in either case.`,
		RunE: runMeasureCommand,
	}

	cmd.Flags().String("energibridge-path", "", "Path to the energibridge executable (required)")
	cmd.Flags().String("repo-path", "", "Path to the code repository to scan (required)")
	cmd.Flags().String("tool", "", "Static analysis tool to use: bandit or semgrep (required)")
	cmd.Flags().String("config-level", "", "Configuration level: strict or loose (required)")
	cmd.Flags().String("output", "text", "Output format (text, json, yaml)")
	cmd.Flags().String("samples-out", "", "Write the periodic samples CSV to this path")
	cmd.Flags().Bool("progress", false, "Print live progress updates")

	_ = cmd.MarkFlagRequired("energibridge-path")
	_ = cmd.MarkFlagRequired("repo-path")
	_ = cmd.MarkFlagRequired("tool")
	_ = cmd.MarkFlagRequired("config-level")

	return cmd
}

func runMeasureCommand(cmd *cobra.Command, args []string) error {
	out := setupOutputPipeline(cmd)
	logger := log.With().Str("command", "measure").Logger()

	params, err := bind.BindMeasureOptions(cmd, cfgManager.Get())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to bind measure options")
		out.Error(err)
		return err
	}

	logger.Info().
		Str("tool", string(params.Tool)).
		Str("config_level", string(params.ConfigLevel)).
		Str("repo", params.RepoPath).
		Msg("Initializing measurement")
	out.Diag(output.LevelVerbose, "Initializing measurement", map[string]any{
		"tool":         params.Tool,
		"config_level": params.ConfigLevel,
		"repo":         params.RepoPath,
	})

	svc := measexec.NewService()

	store, err := openStore(cmd)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open run-history store, runs will not be archived")
	} else if store != nil {
		svc = svc.WithStore(store)
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close run-history store")
			}
		}()
	}

	if interactive, _ := cmd.Flags().GetBool("progress"); interactive {
		svc = svc.WithProgressSink(&progressLogger{
			logger: logger,
			out:    out,
		})
	}

	if strings.EqualFold(params.OutputFormat, "text") {
		out.Info(fmt.Sprintf("Starting %s scan (%s config)...", params.Tool, params.ConfigLevel))
	}

	res, runErr := svc.Run(cmd.Context(), params)
	if runErr != nil {
		logger.Error().Err(runErr).Str("error_code", measexec.ErrorCode(runErr)).Msg("Measurement failed")
		out.Error(runErr)
		return runErr
	}

	return renderMeasureOutput(out, params, res)
}

func renderMeasureOutput(out output.Output, params measexec.Params, res *measexec.Result) error {
	switch strings.ToLower(params.OutputFormat) {
	case "json":
		jsonData, jsonErr := json.MarshalIndent(summaryDocument(res), "", "  ")
		if jsonErr != nil {
			out.Error(jsonErr)
			return jsonErr
		}
		fmt.Println(string(jsonData))

	case "yaml":
		yamlData, yamlErr := yaml.Marshal(summaryDocument(res))
		if yamlErr != nil {
			out.Error(yamlErr)
			return yamlErr
		}
		fmt.Println(string(yamlData))

	default:
		renderMeasureText(out, params, res)
	}

	if !res.Classification.Succeeded() {
		return fmt.Errorf("measurement failed: %s (exit code %d)", res.Classification, res.ExitCode)
	}
	return nil
}

// renderMeasureText prints the scanner output with the energy summary line
// highlighted, followed by a result table.
func renderMeasureText(out output.Output, params measexec.Params, res *measexec.Result) {
	title := capitalize(string(params.Tool))

	switch res.Classification {
	case measure.Success:
		out.Info(fmt.Sprintf("--- %s Scan Successful & Energy Summary (Exit Code 0) ---", title))
	case measure.FindingsDetected:
		out.Warning(fmt.Sprintf("%s scan found issues (exit code %d); treated as a successful energy measurement", title, res.ExitCode))
		out.Info("--- Standard Output & Energy Summary ---")
	case measure.ToolError:
		out.Error(fmt.Errorf("%s failed with exit code %d: this often indicates a configuration file issue or command argument error", title, res.ExitCode))
	default:
		out.Error(fmt.Errorf("command execution failed with unexpected exit code %d", res.ExitCode))
	}

	printTaggedLines(out, res.Stdout)

	if strings.TrimSpace(res.Stderr) != "" {
		out.Info("--- Standard Error Output ---")
		printTaggedLines(out, res.Stderr)
	}
	if strings.TrimSpace(res.Stdout) == "" && strings.TrimSpace(res.Stderr) == "" {
		out.Info("[No output captured on stdout or stderr]")
	}

	energy := "not reported"
	if res.EnergyMeasured {
		energy = fmt.Sprintf("%.2f J", res.EnergyJoules)
	}
	out.Table(
		[]string{"Metric", "Value"},
		[][]string{
			{"Tool", string(params.Tool)},
			{"Config Level", string(params.ConfigLevel)},
			{"Classification", string(res.Classification)},
			{"Exit Code", fmt.Sprintf("%d", res.ExitCode)},
			{"Energy", energy},
			{"Duration", durationBetween(res.StartTime, res.EndTime)},
			{"Run ID", res.RunID},
		},
	)

	if res.Classification.Succeeded() {
		out.Info("Measurement process finished.")
	}
}

// printTaggedLines emits captured output lines, routing energy summary lines
// through the highlight channel without altering their text.
func printTaggedLines(out output.Output, text string) {
	for _, line := range measure.TagOutput(text) {
		if line.EnergySummary {
			out.Highlight(line.Text)
		} else {
			out.Info(line.Text)
		}
	}
}

// summaryDocument shapes a Result for structured output, leaving the raw
// captured streams intact for diagnosis.
func summaryDocument(res *measexec.Result) map[string]any {
	doc := map[string]any{
		"run_id":         res.RunID,
		"start_time":     res.StartTime,
		"end_time":       res.EndTime,
		"classification": res.Classification,
		"exit_code":      res.ExitCode,
		"stdout":         res.Stdout,
		"stderr":         res.Stderr,
	}
	if res.EnergyMeasured {
		doc["energy_joules"] = res.EnergyJoules
	}
	return doc
}

func durationBetween(start, end string) string {
	startTime, errStart := time.Parse(time.RFC3339, start)
	endTime, errEnd := time.Parse(time.RFC3339, end)
	if errStart != nil || errEnd != nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1fs", endTime.Sub(startTime).Seconds())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type progressLogger struct {
	logger zerolog.Logger
	out    output.Output
}

func (p *progressLogger) OnEvent(ev measexec.ProgressEvent) {
	// Structured logging for debugging
	entry := p.logger.Info().
		Str("phase", ev.Phase).
		Str("status", ev.Status)
	if ev.Message != "" {
		entry = entry.Str("message", ev.Message)
	}
	entry.Msg("measurement progress")

	// User-friendly progress output via Output interface
	p.out.Diag(output.LevelVerbose, fmt.Sprintf("%s: %s", ev.Phase, ev.Status), nil)
}
