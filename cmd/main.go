package main

import (
	"biotsavart/analytic"
	"biotsavart/config"
	"biotsavart/server"
	"biotsavart/shape"
	"biotsavart/solver"
	"biotsavart/solver/debug"
	"biotsavart/store"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const usage = `Usage: biotsavart <command> [options]

Commands:
  solve      求解磁场并输出结果
  validate   校验导线与观测点
  shapes     列出内置导线形状
  serve      启动 HTTP 服务

Examples:
  biotsavart solve -c loop.yaml -o field.json --chart field.html
  biotsavart solve --plot field.png --format csv -o field.csv
  biotsavart serve --addr :8080 --db runs.db
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// options 命令行参数，非空时覆盖配置文件
type options struct {
	config   string
	out      string
	format   string
	chart    string
	plot     string
	db       string
	addr     string
	logLevel string
	logJSON  bool
}

func run(command string, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet(command, pflag.ContinueOnError)
	var o options
	fs.StringVarP(&o.config, "config", "c", "", "配置文件 (默认 "+config.DefaultPath+")")
	fs.StringVar(&o.logLevel, "log-level", "", "日志级别 debug/info/warn/error")
	fs.BoolVar(&o.logJSON, "log-json", false, "JSON 格式日志")
	switch command {
	case "solve":
		fs.StringVarP(&o.out, "out", "o", "", "结果文件，- 表示标准输出")
		fs.StringVarP(&o.format, "format", "f", "", "结果格式 json/csv")
		fs.StringVar(&o.chart, "chart", "", "echarts 页面输出路径")
		fs.StringVar(&o.plot, "plot", "", "静态图片输出路径 (png/svg/pdf)")
		fs.StringVar(&o.db, "db", "", "sqlite 数据库路径")
	case "serve":
		fs.StringVar(&o.addr, "addr", "", "监听地址")
		fs.StringVar(&o.db, "db", "", "sqlite 数据库路径")
	case "validate", "shapes":
	default:
		return fmt.Errorf("未知命令: %s", command)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(o.config)
	if err != nil {
		return err
	}
	o.apply(cfg)
	slog.SetDefault(newLogger(cfg.Log))

	switch command {
	case "solve":
		return solve(cfg, stdout)
	case "validate":
		return validate(cfg, stdout)
	case "shapes":
		return shapes(stdout)
	case "serve":
		return serve(cfg)
	}
	return nil
}

// apply 命令行参数覆盖配置
func (o options) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Output.Path, o.out)
	set(&cfg.Output.Format, o.format)
	set(&cfg.Output.Chart, o.chart)
	set(&cfg.Output.Plot, o.plot)
	set(&cfg.Store.Path, o.db)
	set(&cfg.Server.Addr, o.addr)
	set(&cfg.Log.Level, o.logLevel)
	if o.logJSON {
		cfg.Log.JSON = true
	}
}

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newSolver(cfg *config.Config, opts ...solver.Option) *solver.Solver {
	return solver.New(append([]solver.Option{
		solver.WithMu0(cfg.Solver.Mu0),
		solver.WithStrict(cfg.Solver.Strict),
		solver.WithLogger(slog.Default()),
	}, opts...)...)
}

func solve(cfg *config.Config, stdout io.Writer) error {
	wire, err := cfg.BuildWire()
	if err != nil {
		return err
	}
	points, err := cfg.BuildPoints()
	if err != nil {
		return err
	}

	record := &debug.Record{}
	start := time.Now()
	if _, err := newSolver(cfg, solver.WithDebug(record)).Solve(wire, points); err != nil {
		return err
	}
	slog.Info(record.Summary(), "elapsed", time.Since(start))

	if name, ref, ok := cfg.Reference(cfg.Solver.Mu0); ok {
		record.AddReference(name, ref)
		if c, err := analytic.Compare(record.Magnitude, ref); err == nil {
			slog.Info("解析解对比", "reference", name, "max_rel_err", c.MaxRelErr, "rms_rel_err", c.RMSRelErr)
		}
	}

	if err := writeOutput(cfg.Output, record, stdout); err != nil {
		return err
	}
	if cfg.Output.Chart != "" {
		if err := writeFile(cfg.Output.Chart, (&debug.Charts{Record: *record, Axis: cfg.Points.Axis}).Render); err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		slog.Info("chart written", "path", cfg.Output.Chart)
	}
	if cfg.Output.Plot != "" {
		if err := debug.NewPlot(record, cfg.Points.Axis).Save(cfg.Output.Plot); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		slog.Info("plot written", "path", cfg.Output.Plot)
	}

	if cfg.Store.Path != "" {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		run := store.NewRun(record, cfg.Solver.Mu0)
		if err := db.SaveRun(context.Background(), run); err != nil {
			return err
		}
		slog.Info("run saved", "id", run.ID, "db", cfg.Store.Path)
	}
	return nil
}

func writeOutput(c config.OutputConfig, record *debug.Record, stdout io.Writer) error {
	render := record.Render
	switch strings.ToLower(c.Format) {
	case "", "json":
	case "csv":
		render = record.WriteCSV
	default:
		return fmt.Errorf("未知输出格式: %s", c.Format)
	}
	if c.Path == "" || c.Path == "-" {
		return render(stdout)
	}
	if err := writeFile(c.Path, render); err != nil {
		return err
	}
	slog.Info("output written", "path", c.Path, "format", c.Format)
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func validate(cfg *config.Config, stdout io.Writer) error {
	wire, err := cfg.BuildWire()
	if err != nil {
		return err
	}
	points, err := cfg.BuildPoints()
	if err != nil {
		return err
	}
	degenerate := 0
	for _, seg := range wire.Segments() {
		if seg.IsDegenerate() {
			degenerate++
		}
	}
	segments := wire.Len() - 1
	fmt.Fprintf(stdout, "wire %s: %s 顶点, 长度 %s m, 闭合 %v, 零长度线段 %d\n",
		wire.Name, humanize.Comma(int64(wire.Len())), humanize.FtoaWithDigits(wire.Length(), 6), wire.Closed(), degenerate)
	fmt.Fprintf(stdout, "points: %s, 计算量 %s\n",
		humanize.Comma(int64(points.Len())), humanize.Comma(int64(segments)*int64(points.Len())))
	if degenerate > 0 && cfg.Solver.Strict {
		return fmt.Errorf("严格模式下存在 %d 条零长度线段", degenerate)
	}
	return nil
}

func shapes(stdout io.Writer) error {
	for _, name := range shape.Names() {
		line, err := shape.Usage(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, line)
	}
	return nil
}

func serve(cfg *config.Config) error {
	var db *store.DB
	if cfg.Store.Path != "" {
		var err error
		if db, err = store.Open(cfg.Store.Path); err != nil {
			return err
		}
		defer db.Close()
	}
	s := server.New(cfg.Server.Addr, slog.Default(), db,
		solver.WithMu0(cfg.Solver.Mu0),
		solver.WithStrict(cfg.Solver.Strict),
	)
	return s.Start()
}
