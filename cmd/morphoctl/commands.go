package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"morphogen/internal/config"
	"morphogen/internal/map2rec"
	"morphogen/internal/render"
	"morphogen/pkg/morphogen"
)

// targetFlags select the body a command maps onto.
type targetFlags struct {
	shape   string
	sensors string
	file    string
	name    string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.shape, "shape", "", "named shape, e.g. biped-4x3")
	cmd.Flags().StringVar(&f.sensors, "sensors", map2rec.DefaultSensorConfig, "sensor configuration for --shape")
	cmd.Flags().StringVar(&f.file, "target-file", "", "YAML or JSON target file")
	cmd.Flags().StringVar(&f.name, "target", "", "name of a stored target")
}

func (f *targetFlags) record() (map2rec.TargetRecord, error) {
	switch {
	case f.file != "":
		return config.LoadTarget(f.file)
	case f.shape != "":
		return map2rec.TargetRecord{Name: f.shape, Shape: f.shape, Sensors: f.sensors}, nil
	case f.name != "":
		return map2rec.TargetRecord{Name: f.name}, nil
	}
	return map2rec.TargetRecord{}, fmt.Errorf("one of --shape, --target-file or --target is required")
}

func (a *app) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List pipeline stage kinds and their patterns",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			kinds := morphogen.Kinds()
			names := make([]string, 0, len(kinds))
			for name := range kinds {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(a.out, "%-32s %s\n", name, kinds[name])
			}
			return nil
		},
	}
}

func (a *app) exampleCmd() *cobra.Command {
	var (
		pipeline string
		target   targetFlags
	)
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Show the genotype shape a pipeline needs for a target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := target.record()
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			summary, err := c.Example(cmd.Context(), morphogen.ExampleRequest{Pipeline: pipeline, Target: rec})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "pipeline=%s genotype=%s length=%s\n", summary.Pipeline, summary.Type, humanize.Comma(int64(summary.Length)))
			return nil
		},
	}
	cmd.Flags().StringVar(&pipeline, "pipeline", "", "mapping pipeline, outermost stage first")
	target.register(cmd)
	_ = cmd.MarkFlagRequired("pipeline")
	return cmd
}

func (a *app) mapCmd() *cobra.Command {
	var (
		requestFile string
		pipeline    string
		count       int
		seed        int64
		minimaps    bool
		target      targetFlags
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map a batch of genotypes and store the run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := morphogen.MapRequest{Pipeline: pipeline, Count: count, Seed: seed, Workers: a.opts.workers}
			if requestFile != "" {
				rec, err := config.LoadRequest(requestFile)
				if err != nil {
					return err
				}
				req = morphogen.RequestFromRecord(rec)
				if cmd.Flags().Changed("pipeline") {
					req.Pipeline = pipeline
				}
				if cmd.Flags().Changed("count") {
					req.Count = count
				}
				if cmd.Flags().Changed("seed") {
					req.Seed = seed
				}
				if cmd.Flags().Changed("workers") {
					req.Workers = a.opts.workers
				}
			}
			if requestFile == "" || target.shape != "" || target.file != "" || target.name != "" {
				rec, err := target.record()
				if err != nil {
					return err
				}
				req.Target = rec
			}
			if req.Pipeline == "" {
				return fmt.Errorf("--pipeline or --config is required")
			}

			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			summary, err := c.Map(cmd.Context(), req)
			if err != nil {
				return err
			}
			run := summary.Run
			fmt.Fprintf(a.out, "run=%s pipeline=%s target=%s genotype_length=%s mapped=%d failed=%d elapsed=%s\n",
				run.ID, run.Pipeline, run.Target, humanize.Comma(int64(run.GenotypeLength)), run.Succeeded, run.Failed, run.Duration)
			for _, p := range summary.Phenotypes {
				if p.Error != "" {
					fmt.Fprintf(a.out, "  #%d error: %s\n", p.Index, p.Error)
					continue
				}
				fmt.Fprintf(a.out, "  #%d controller=%s voxels=%d sensors=%d\n", p.Index, p.Controller, p.Voxels, p.Sensors)
				if minimaps {
					fmt.Fprint(a.out, p.Minimap)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&requestFile, "config", "", "YAML or JSON request file")
	cmd.Flags().StringVar(&pipeline, "pipeline", "", "mapping pipeline, outermost stage first")
	cmd.Flags().IntVar(&count, "count", 10, "random genotypes to map")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&minimaps, "minimap", false, "print the body of every phenotype")
	target.register(cmd)
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var (
		pipeline string
		seed     int64
		steps    int
		dt       float64
		colored  bool
		target   targetFlags
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Map one random genotype and print its body and actuation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := target.record()
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			summary, err := c.Show(cmd.Context(), morphogen.ShowRequest{Pipeline: pipeline, Target: rec, Seed: seed, Steps: steps, TimeStep: dt})
			if err != nil {
				return err
			}
			painter := render.NewPainter(a.out)
			if cmd.Flags().Changed("color") {
				painter.SetColor(colored)
			}
			if err := painter.Body(fmt.Sprintf("%s (%s)", rec.Name, summary.Robot.Controller.Kind()), summary.Robot.Body); err != nil {
				return err
			}
			for i, act := range summary.Actuations {
				if err := painter.Actuation(fmt.Sprintf("t=%.2f", float64(i+1)*dt), act); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pipeline, "pipeline", "", "mapping pipeline, outermost stage first")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&steps, "steps", 3, "control steps to run with idle readings")
	cmd.Flags().Float64Var(&dt, "dt", 0.1, "seconds per control step")
	cmd.Flags().BoolVar(&colored, "color", false, "force coloured output on or off")
	target.register(cmd)
	_ = cmd.MarkFlagRequired("pipeline")
	return cmd
}

func (a *app) targetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Manage stored targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			names, err := c.Targets(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}

	var target targetFlags
	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Store a target from a file or a named shape",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := target.record()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				rec.Name = args[0]
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.SaveTarget(cmd.Context(), rec); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "stored target=%s\n", rec.Name)
			return nil
		},
	}
	target.register(add)

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the minimap of a stored target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			rec, err := c.Target(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			body, err := map2rec.Body(rec)
			if err != nil {
				return err
			}
			return render.NewPainter(a.out).Body(rec.Name, body)
		},
	}
	var exported targetFlags
	export := &cobra.Command{
		Use:   "export [name]",
		Short: "Print a target as a versioned JSON record, loadable with --target-file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec map2rec.TargetRecord
			if len(args) == 1 {
				c, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				defer c.Close()

				if rec, err = c.Target(cmd.Context(), args[0]); err != nil {
					return err
				}
			} else {
				var err error
				if rec, err = exported.record(); err != nil {
					return err
				}
			}
			body, err := map2rec.Body(rec)
			if err != nil {
				return err
			}
			data, err := map2rec.EncodeRecord("target", map2rec.FromBody(rec.Name, body))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(data))
			return nil
		},
	}
	exported.register(export)

	cmd.AddCommand(add, show, export)
	return cmd
}

func (a *app) runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			runs, err := c.Runs(cmd.Context(), morphogen.RunsRequest{Limit: limit})
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Fprintf(a.out, "%s %s pipeline=%s target=%s mapped=%d/%d\n",
					run.ID, humanize.Time(run.StartedAt), run.Pipeline, run.Target, run.Succeeded, run.Requested)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	return cmd
}

func (a *app) phenotypesCmd() *cobra.Command {
	var (
		runID  string
		latest bool
	)
	cmd := &cobra.Command{
		Use:   "phenotypes",
		Short: "List the phenotype records of a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			phenotypes, err := c.Phenotypes(cmd.Context(), morphogen.PhenotypesRequest{RunID: runID, Latest: latest})
			if err != nil {
				return err
			}
			for _, p := range phenotypes {
				if p.Error != "" {
					fmt.Fprintf(a.out, "#%d error: %s\n", p.Index, p.Error)
					continue
				}
				fmt.Fprintf(a.out, "#%d controller=%s size=%dx%d voxels=%d\n", p.Index, p.Controller, p.Width, p.Height, p.Voxels)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "run to list")
	cmd.Flags().BoolVar(&latest, "latest", false, "use the most recent run")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		runID  string
		latest bool
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write run, summary, phenotype table and minimaps of a run to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			summary, err := c.Export(cmd.Context(), morphogen.ExportRequest{RunID: runID, Latest: latest, OutDir: outDir})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "exported run=%s dir=%s\n", summary.RunID, summary.Dir)
			for _, kind := range summary.Summary.Controllers() {
				fmt.Fprintf(a.out, "  %s: %d\n", kind, summary.Summary.ByController[kind])
			}
			if summary.Summary.Failed > 0 {
				fmt.Fprintf(a.out, "  failed: %d\n", summary.Summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "run to export")
	cmd.Flags().BoolVar(&latest, "latest", false, "use the most recent run")
	cmd.Flags().StringVar(&outDir, "out", "artifacts", "output directory")
	return cmd
}
