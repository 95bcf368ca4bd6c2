// Command molcom analyzes batches of molecular communication simulation results:
// it parses experiment descriptors, reads the matching result logs, and exports per
// configuration statistics alongside the analytical round trip time prediction.
package main

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iti/molcom"
	"github.com/iti/molcom/internal/logging"
)

// Globals are the flags shared by every command
type Globals struct {
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info" env:"LOG_LEVEL"`
	LogFormat string `help:"Log format (text or json)." default:"text" env:"LOG_FORMAT"`
}

func (g *Globals) logger() logging.Logger {
	return logging.New(logging.Config{Level: g.LogLevel, Format: g.LogFormat})
}

// RunCmd analyzes every descriptor a batch selects
type RunCmd struct {
	Config      string `help:"Batch configuration file (yaml or json)." type:"existingfile"`
	Descriptors string `help:"Glob selecting the descriptor files." placeholder:"GLOB"`
	Results     string `help:"Directory holding the result logs."`
	Prefix      string `help:"File name prefix of the result logs."`
	Output      string `help:"Export file; .csv, .yaml or .json." short:"o"`
	Overwrite   bool   `help:"Replace an existing export file."`
	Header      bool   `help:"Write the column names as the first csv row."`
	Trace       string `help:"Write the processing trace to this yaml or json file."`
	Bootstrap   int    `help:"Bootstrap replicas for the mean step interval (0 disables)." default:"-1"`
	Diffusion   string `help:"Diffusion coefficient table replacing the embedded one."`
	MetricsFile string `help:"Write Prometheus metrics in text format to this file."`
}

func (rc *RunCmd) batchCfg() (*molcom.BatchCfg, error) {
	cfg := molcom.CreateBatchCfg("molcom")
	if len(rc.Config) > 0 {
		ext := path.Ext(rc.Config)
		useYAML := ext != ".json" && ext != ".JSON"
		var err error
		if cfg, err = molcom.ReadBatchCfg(rc.Config, useYAML, []byte{}); err != nil {
			return nil, fmt.Errorf("reading %s: %w", rc.Config, err)
		}
		if len(cfg.Name) == 0 {
			cfg.Name = "molcom"
		}
	}

	// flags given on the command line override the file
	if len(rc.Descriptors) > 0 {
		cfg.DescriptorGlob = rc.Descriptors
	}
	if len(rc.Results) > 0 {
		cfg.ResultDir = rc.Results
	}
	if len(rc.Prefix) > 0 {
		cfg.ResultPrefix = rc.Prefix
	}
	if len(rc.Output) > 0 {
		cfg.Output = rc.Output
	}
	if len(rc.Trace) > 0 {
		cfg.TraceFile = rc.Trace
	}
	if len(rc.Diffusion) > 0 {
		cfg.DiffusionTable = rc.Diffusion
	}
	if rc.Bootstrap >= 0 {
		cfg.BootstrapReplicas = rc.Bootstrap
	}
	cfg.Overwrite = cfg.Overwrite || rc.Overwrite
	cfg.Header = cfg.Header || rc.Header
	return cfg, nil
}

func (rc *RunCmd) Run(g *Globals) error {
	ctx := context.Background()
	logger := g.logger()

	cfg, err := rc.batchCfg()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector, err := molcom.NewBatchCollector(reg)
	if err != nil {
		return err
	}

	batch, err := molcom.CreateBatch(cfg, logger, collector)
	if err != nil {
		return err
	}
	report, err := batch.Run(ctx)
	if err != nil {
		return err
	}

	if len(rc.MetricsFile) > 0 {
		if err := collector.WriteToTextfile(rc.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	for _, exp := range report.Experiments {
		fmt.Printf("%s: trials=%d mean=%.3f median=%g std=%.3f r=%.3f rtt=%.3f\n",
			exp.Path, exp.Stats.Count, exp.Stats.Mean, exp.Stats.Median, exp.Stats.StdDev,
			exp.Prediction.R, exp.Prediction.RTT)
	}
	if len(report.Failures) > 0 {
		fmt.Fprintf(os.Stderr, "%d descriptor(s) failed:\n", len(report.Failures))
		for _, de := range report.Failures {
			fmt.Fprintf(os.Stderr, "  %s\n", de.Error())
		}
		return fmt.Errorf("%d of %d descriptors failed", len(report.Failures),
			len(report.Failures)+len(report.Experiments))
	}
	return nil
}

// InspectCmd parses one descriptor and shows what it declares and what the model predicts
type InspectCmd struct {
	Descriptor string `arg:"" help:"Descriptor file." type:"existingfile"`
}

func (ic *InspectCmd) Run(g *Globals) error {
	cm, err := molcom.ReadDescriptor(ic.Descriptor)
	if err != nil {
		return err
	}
	if err := cm.WriteDescriptor(os.Stdout); err != nil {
		return err
	}

	rails := molcom.CreateRailNetwork(cm.Microtubules()).Summary()
	fmt.Printf("* microtubules=%d networks=%d length=%g\n", rails.Segments, rails.Networks, rails.TotalLength)

	pred, err := molcom.CreateAnalyticalModel(cm, molcom.DefaultDiffusionTable())
	if err != nil {
		g.logger().Warn(context.Background(), "no prediction", logging.Err(err))
		return nil
	}
	fmt.Printf("* r=%g D=%g L=%d l=%g info=%g ack=%g rtt=%g\n",
		pred.R, pred.D, pred.BigL, pred.SmallL, pred.InfoTime, pred.AckTime, pred.RTT)
	return nil
}

var cli struct {
	Globals

	Run     RunCmd     `cmd:"" help:"Analyze a batch of descriptors and their result logs."`
	Inspect InspectCmd `cmd:"" help:"Show a parsed descriptor and its analytical prediction."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("molcom"),
		kong.Description("Molecular communication experiment analysis."),
		kong.UsageOnError(),
	)
	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
