// Command researcher researches a topic with web search and an optional
// video, writes a markdown report and can voice the findings as a podcast.
//
//	researcher -topic "Quantum Computing" -video https://youtu.be/... -podcast
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/smallnest/mmresearcher/config"
	"github.com/smallnest/mmresearcher/display"
	"github.com/smallnest/mmresearcher/graph"
	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/llm/gemini"
	"github.com/smallnest/mmresearcher/llm/langchain"
	"github.com/smallnest/mmresearcher/llm/openaitts"
	"github.com/smallnest/mmresearcher/log"
	"github.com/smallnest/mmresearcher/report"
	"github.com/smallnest/mmresearcher/research"
	"github.com/smallnest/mmresearcher/websearch"
)

// openAIDefaults replace the Gemini model and voice defaults on the openai
// backend. Override files and environment variables still take precedence.
var openAIDefaults = map[string]string{
	"plan_model":      "gpt-4o-mini",
	"search_model":    "gpt-4o-mini",
	"synthesis_model": "gpt-4o-mini",
	"video_model":     "gpt-4o-mini",
	"tts_model":       string(openaitts.DefaultModel),
	"mike_voice":      "onyx",
	"sarah_voice":     "nova",
}

type flags struct {
	topic       string
	video       string
	podcast     bool
	plan        bool
	videoAnchor bool
	configPath  string
	outDir      string
	reportPath  string
	htmlPath    string
	mermaid     bool
	backend     string
	logLevel    string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.topic, "topic", "", "research topic (may also be given as arguments)")
	flag.StringVar(&f.video, "video", "", "video URL to analyze, e.g. a YouTube link")
	flag.BoolVar(&f.podcast, "podcast", false, "also create a podcast discussion and its audio")
	flag.BoolVar(&f.plan, "plan", false, "plan report sections before researching")
	flag.BoolVar(&f.videoAnchor, "video-anchor", false, "allow a video URL without a topic")
	flag.StringVar(&f.configPath, "config", "", "YAML file with configuration overrides")
	flag.StringVar(&f.outDir, "out", ".", "directory for the podcast audio")
	flag.StringVar(&f.reportPath, "report", "", "write the markdown report to this file")
	flag.StringVar(&f.htmlPath, "html", "", "write the report as an HTML page to this file")
	flag.BoolVar(&f.mermaid, "mermaid", false, "print the pipeline graph as a Mermaid diagram and exit")
	flag.StringVar(&f.backend, "backend", "gemini", "generative backend: gemini or openai")
	flag.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error or none")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [topic]\n\nConfiguration options (environment variable > -config file > default):\n", os.Args[0])
		for _, o := range config.Options() {
			fmt.Fprintf(flag.CommandLine.Output(), "  %-28s %-6s default %-30s %s\n", o.Env, o.Kind, o.Default, o.Help)
		}
		fmt.Fprintln(flag.CommandLine.Output(), "\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if f.topic == "" && flag.NArg() > 0 {
		f.topic = strings.Join(flag.Args(), " ")
	}
	return f
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	f := parseFlags()
	logger := newLogger(f.logLevel)
	log.SetDefaultLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, f, logger); err != nil {
		var nodeErr *graph.NodeError
		if errors.As(err, &nodeErr) {
			logger.Error("stage %s failed: %v", nodeErr.Node, nodeErr.Err)
		} else {
			logger.Error("%v", err)
		}
		os.Exit(1)
	}
}

func newLogger(level string) *log.GologLogger {
	l, err := log.NewGologLoggerNamed(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, using info\n", err)
	}
	return l
}

func run(ctx context.Context, f flags, logger log.Logger) error {
	overrides := map[string]string{}
	if f.backend == "openai" {
		maps.Copy(overrides, openAIDefaults)
	}
	if f.configPath != "" {
		fileOverrides, err := config.LoadOverrides(f.configPath)
		if err != nil {
			return err
		}
		maps.Copy(overrides, fileOverrides)
	}
	cfg, err := config.Resolve(overrides)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, f.backend, logger)
	if err != nil {
		return err
	}
	client = llm.WithLogging(llm.WithTimeout(client, cfg.RequestTimeout()), logger)

	console := display.NewConsole(os.Stdout)
	opts := []research.Option{
		research.WithLogger(logger),
		research.WithOutputDir(f.outDir),
		research.WithListener(display.Listener[research.State](console)),
	}
	if f.plan {
		opts = append(opts, research.WithPlanning())
	}
	if f.podcast {
		opts = append(opts, research.WithPodcast())
	}
	if f.videoAnchor {
		opts = append(opts, research.WithVideoAnchor())
	}

	pipeline, err := research.New(client, cfg, opts...)
	if err != nil {
		return err
	}
	if f.mermaid {
		fmt.Println(graph.NewExporter(pipeline.Graph()).DrawMermaid())
		return nil
	}

	out, err := pipeline.Run(ctx, research.Input{Topic: f.topic, VideoURL: f.video})
	if err != nil {
		return err
	}

	console.Heading("Research Report")
	fmt.Println(out.Report)
	if out.Citations != nil {
		console.Heading("Web Research Citations")
		console.Response("", out.Citations)
	}

	if f.reportPath != "" {
		if err := os.WriteFile(f.reportPath, []byte(out.Report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		console.Field("Report", f.reportPath)
	}
	if f.htmlPath != "" {
		title := f.topic
		if title == "" {
			title = f.video
		}
		page, err := report.Document("Research Report: "+title, out.Report)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		if err := os.WriteFile(f.htmlPath, page, 0o644); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		console.Field("HTML", f.htmlPath)
	}
	if out.PodcastAudioPath != "" {
		console.Field("Podcast audio", out.PodcastAudioPath)
	}
	return nil
}

func newClient(ctx context.Context, backend string, logger log.Logger) (llm.Client, error) {
	switch backend {
	case "gemini":
		return gemini.New(ctx, gemini.Options{Logger: logger})
	case "openai":
		token := os.Getenv("OPENAI_API_KEY")
		if token == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", config.ErrConfiguration)
		}
		baseURL := os.Getenv("OPENAI_API_BASE")

		lcOpts := []lcopenai.Option{lcopenai.WithToken(token)}
		if baseURL != "" {
			lcOpts = append(lcOpts, lcopenai.WithBaseURL(baseURL))
		}
		model, err := lcopenai.New(lcOpts...)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		var lcGenOpts []langchain.Option
		if os.Getenv("BRAVE_API_KEY") != "" {
			brave, err := websearch.NewBrave("")
			if err != nil {
				return nil, err
			}
			lcGenOpts = append(lcGenOpts, langchain.WithSearcher(brave))
		} else {
			logger.Warn("BRAVE_API_KEY is not set, web research will have no sources")
		}
		return llm.Compose(
			langchain.New(model, logger, lcGenOpts...),
			llm.Unsupported{Backend: "openai"},
			openaitts.New(token, baseURL, logger),
		), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q (want gemini or openai)", config.ErrConfiguration, backend)
	}
}
