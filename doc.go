// MM Researcher - multi-modal research and podcast generation in Go
//
// MM Researcher researches a topic with grounded web search and, optionally,
// a video. It merges both into a markdown report and can voice the findings
// as a two-host podcast saved as a WAV file. The workflow is a typed state
// graph: every stage reads the shared research state and returns the fields
// it produced.
//
// # Quick Start
//
// Install the command:
//
//	go install github.com/smallnest/mmresearcher/cmd/researcher@latest
//
// Run it with a Gemini API key:
//
//	export GEMINI_API_KEY=...
//	researcher -topic "Quantum Computing" -video https://youtu.be/... -podcast
//
// Or use the library directly:
//
//	client, err := gemini.New(ctx, gemini.Options{})
//	if err != nil {
//		return err
//	}
//	pipeline, err := research.New(client, config.Default(), research.WithPodcast())
//	if err != nil {
//		return err
//	}
//	out, err := pipeline.Run(ctx, research.Input{Topic: "Quantum Computing"})
//
// # Packages
//
//   - research: the pipeline, its state and stages
//   - graph: generic state graph with conditional edges, listeners, tracing and Mermaid/DOT export
//   - llm: the generative service contract, grounding records and podcast scripts
//   - llm/gemini: Gemini backend with search grounding, video analysis and multi-speaker speech
//   - llm/langchain: text generation over any langchaingo model
//   - llm/openaitts: OpenAI text-to-speech
//   - llm/llmtest: scripted client for tests and offline runs
//   - websearch: Brave web search used to ground backends without built-in search
//   - config: per-run tunables resolved from environment, overrides and defaults
//   - audio: WAV container writing
//   - report: markdown report layout and HTML rendering
//   - display: console progress and citation output
//   - log: leveled logging on the standard logger or golog
//
// # Configuration
//
// Every tunable has a lower-case name and an upper-case environment variable,
// for example synthesis_model and SYNTHESIS_MODEL. The environment wins over
// run-time overrides, which win over the built-in defaults. Credentials are
// read from GEMINI_API_KEY (or GOOGLE_API_KEY), OPENAI_API_KEY and
// BRAVE_API_KEY. A .env file in the working directory is loaded by the
// command.
//
// See ./examples/offline_research for a run that needs no API keys.
package mmresearcher // import "github.com/smallnest/mmresearcher"
