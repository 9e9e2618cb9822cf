// Package orchestrator implements the orchestration core (C12): the
// component that composes the classifier, retriever, tool agent,
// synthesizer, verifier, and optional reranker into the full
// question-answering pipeline, under a global watchdog and a streaming
// event contract that always terminates in exactly one final event.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/chunking"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/classifier"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/config"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/embeddings"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/llm"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/memory"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/pdfsource"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/reranker"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/retrieveragent"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/synthesizer"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/toolagent"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/tools"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/verifier"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

// Tracer records a best-effort trace event for one pipeline stage. A nil
// Tracer is valid; Orchestrator treats tracing as purely observational
// and never lets it affect the answer path.
type Tracer interface {
	Record(ctx context.Context, event models.TraceEvent)
}

// Orchestrator wires together one instance of every pipeline
// collaborator and runs the full pipeline for a query against a PDF.
type Orchestrator struct {
	cfg    *config.Config
	logger zerolog.Logger

	embedder  embeddings.Client
	llmClient llm.Client

	pdfLoader pdfsource.Loader
	chunker   chunking.Chunker

	memoryStore *memory.Store

	toolAgent *toolagent.Agent

	retrieverAgent *retrieveragent.Agent
	synthAgent     *synthesizer.Agent

	tracer Tracer
}

// New constructs an Orchestrator from cfg, wiring an OpenAI LLM client
// and embedder when an API key is configured and degrading to no-op
// collaborators (which push every downstream similarity computation to
// the token-overlap fallback) otherwise, per the "never fatal on a
// missing credential" policy.
func New(cfg *config.Config, tracer Tracer) (*Orchestrator, error) {
	level := zerolog.ErrorLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := util.NewLogger(level)

	var embedder embeddings.Client
	var llmClient llm.Client

	switch {
	case cfg.HasOpenAI():
		oaEmbed, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		if err != nil {
			logger.Warn().Err(err).Msg("orchestrator: embedding client unavailable, falling back to token overlap")
		} else {
			embedder = oaEmbed
		}

		oaLLM, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			logger.Warn().Err(err).Msg("orchestrator: llm client unavailable, synthesis will degrade to empty answers")
			llmClient = noopLLM{}
		} else {
			llmClient = oaLLM
		}
	case os.Getenv("TOGETHER_API_KEY") != "":
		taEmbed, err := embeddings.NewTogetherAIEmbedder(os.Getenv("TOGETHER_API_KEY"), "")
		if err != nil {
			logger.Warn().Err(err).Msg("orchestrator: together embedding client unavailable")
		} else {
			embedder = taEmbed
		}
		llmClient = noopLLM{}
	default:
		logger.Warn().Msg("orchestrator: no OPENAI_API_KEY configured, running with degraded LLM/embedding capability")
		llmClient = noopLLM{}
	}

	registry := tools.NewRegistry(cfg.ToolConfigPath, cfg.CredentialsPath)
	planner := tools.NewPlanner(llmClient, registry, cfg.LLMModel)
	resolver := tools.NewCredentialResolver(registry, cfg.Interactive, os.Stdin, os.Stdout)
	executor := tools.NewExecutor(registry)

	return &Orchestrator{
		cfg:            cfg,
		logger:         logger,
		embedder:       embedder,
		llmClient:      llmClient,
		pdfLoader:      pdfsource.NewDefaultLoader(),
		chunker:        chunking.NewCharChunker(),
		memoryStore:    memory.NewStore(cfg.MemoryDir),
		toolAgent:      toolagent.NewAgent(planner, resolver, executor),
		retrieverAgent: retrieveragent.NewAgent(embedder, llmClient, cfg.LLMModel, cfg.RetrieverTemperature),
		synthAgent:     synthesizer.NewAgent(llmClient, cfg.LLMModel, cfg.SynthesizerTemperature),
		tracer:         tracer,
	}, nil
}

// noopLLM degrades every call to an empty response instead of a panic,
// so the pipeline can still run end-to-end (falling back to extracted
// chunk text and raw tool snippets) when no LLM credential is configured.
type noopLLM struct{}

func (noopLLM) Call(ctx context.Context, prompt, model string, temperature float32) string {
	return ""
}

func (noopLLM) Stream(ctx context.Context, prompt, model string, temperature float32) <-chan string {
	out := make(chan string)
	close(out)
	return out
}

// pipelineState carries the stage-flag discipline and accumulated
// evidence through one Run/RunStream invocation.
type pipelineState struct {
	classifierDone bool
	retrieverDone  bool
	toolDone       bool
	synthDone      bool
	verifierDone   bool

	secondaryCompletionFired bool

	trace []models.TraceEvent
}

func (s *pipelineState) recordStage(agent string, status models.TraceStatus, start time.Time, extra map[string]interface{}) {
	s.trace = append(s.trace, models.TraceEvent{
		Agent:     agent,
		Status:    status,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: start.Unix(),
		Extra:     extra,
	})
}

// prepare loads and chunks the PDF at pdfPath.
func (o *Orchestrator) prepare(pdfPath string) ([]models.Chunk, error) {
	text, breaks := o.pdfLoader.ExtractText(pdfPath, o.cfg.MaxPages)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("orchestrator: no extractable text in %s", pdfPath)
	}
	return o.chunker.Chunk(text, o.cfg.ChunkSize, o.cfg.ChunkOverlap, breaks)
}

// Run is the blocking entry point: classify, retrieve, plan and execute
// external tools, synthesize, verify, persist, and return one Result. A
// panic anywhere in the pipeline is recovered and converted into a
// failsafe Result rather than propagating to the caller.
func (o *Orchestrator) Run(ctx context.Context, query, pdfPath string) (result models.Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Interface("panic", r).Msg("orchestrator: recovered panic in Run")
			result = models.Result{
				Answer: "",
				Flags:  []string{"PIPELINE_ERROR"},
			}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.WorkflowTimeoutSec)*time.Second)
	defer cancel()

	state := &pipelineState{}
	answer, provenance, verdict := o.runPipeline(ctx, query, pdfPath, state)

	o.emitTrace(ctx, state.trace)

	return models.Result{
		Answer:     answer,
		Confidence: verdict.Confidence,
		Provenance: provenance,
		Trace:      state.trace,
		Flags:      verdict.Flags,
	}
}

// RunStream is the streaming entry point. It emits zero or more "log"
// events, interleaved "token" events while the answer is being
// synthesized, an optional "error" event, and always terminates in
// exactly one "final" event, even when the pipeline panics or the
// workflow timeout elapses.
func (o *Orchestrator) RunStream(ctx context.Context, query, pdfPath string) <-chan models.StreamEvent {
	out := make(chan models.StreamEvent, 32)

	go func() {
		defer close(out)

		ctx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.WorkflowTimeoutSec)*time.Second)
		defer cancel()

		finalSent := false
		sendFinal := func(answer string, confidence float64, provenance []models.ProvenanceEntry, trace []models.TraceEvent) {
			if finalSent {
				return
			}
			finalSent = true
			send(ctx, out, models.StreamEvent{
				Type:       models.StreamFinal,
				Answer:     answer,
				Confidence: confidence,
				Provenance: provenance,
				Trace:      trace,
			})
		}

		defer func() {
			if r := recover(); r != nil {
				o.logger.Error().Interface("panic", r).Msg("orchestrator: recovered panic in RunStream")
				send(ctx, out, models.StreamEvent{Type: models.StreamError, Message: "internal error"})
				sendFinal("", 0, nil, nil)
			}
		}()

		state := &pipelineState{}
		log := func(msg string) { send(ctx, out, models.StreamEvent{Type: models.StreamLog, Message: msg}) }
		timeoutEvent := func(stage string) {
			send(ctx, out, models.StreamEvent{Type: models.StreamError, Message: fmt.Sprintf("System timed out (%s)", stage)})
		}

		chunks, err := o.prepare(pdfPath)
		if err != nil {
			send(ctx, out, models.StreamEvent{Type: models.StreamError, Message: err.Error()})
			sendFinal("", 0, nil, state.trace)
			return
		}
		chunkTexts := chunkTextsOf(chunks)

		log("classifying query")
		classifierResult := o.classify(query, chunkTexts, state)

		log("retrieving internal evidence")
		partials, retrieverTimedOut := o.retrieve(ctx, query, chunks, state)
		internalFacts := internalFactsFrom(partials)
		if retrieverTimedOut {
			timeoutEvent("retriever")
		}

		var externalSnippets []models.ToolSnippet
		if workflowExpired(ctx) {
			state.recordStage("tool_agent", models.TraceSkipped, time.Now(), nil)
		} else {
			log("planning external tools")
			var toolTimedOut bool
			_, externalSnippets, toolTimedOut = o.externalEvidence(ctx, query, classifierResult, state)
			if toolTimedOut {
				timeoutEvent("tool_agent")
			}
		}

		var uncovered []string
		if !workflowExpired(ctx) {
			var secondaryTimedOut bool
			uncovered, secondaryTimedOut = o.secondaryCompletion(ctx, query, classifierResult, internalFacts, &externalSnippets, state)
			if secondaryTimedOut {
				timeoutEvent("tool_agent_secondary")
			}
		}
		if len(uncovered) > 0 {
			log("filling missing slots: " + strings.Join(uncovered, ", "))
		}
		externalFacts := externalFactsFrom(externalSnippets)

		memoryFacts := o.recallMemory(ctx, query, pdfPath)
		provenance := buildProvenance(internalFacts, externalFacts, pdfPath)

		// The global watchdog: once the overall workflow budget is spent,
		// no further stage is started; whatever evidence was gathered so
		// far is verified and returned as the failsafe final.
		if workflowExpired(ctx) {
			timeoutEvent("workflow")
			verdict := o.verify("", provenance, partials, externalSnippets, state)
			o.emitTrace(ctx, state.trace)
			sendFinal("", verdict.Confidence, provenance, state.trace)
			return
		}

		log("synthesizing answer")
		synthStart := time.Now()
		var pieces []string
		for piece := range o.synthAgent.SynthesizeStream(ctx, internalFacts, externalFacts, memoryFacts, query, "") {
			pieces = append(pieces, piece)
			send(ctx, out, models.StreamEvent{Type: models.StreamToken, Text: piece})
		}
		answer := synthesizer.StripProvenanceLabels(llm.JoinPieces(pieces))
		state.synthDone = true
		synthTimedOut := workflowExpired(ctx)
		synthStatus := models.TraceOK
		if synthTimedOut {
			synthStatus = models.TraceError
		}
		state.recordStage("synthesizer", synthStatus, synthStart, nil)
		if synthTimedOut {
			timeoutEvent("workflow")
		}

		log("verifying answer")
		verdict := o.verify(answer, provenance, partials, externalSnippets, state)

		o.persist(pdfPath, query, answer, verdict)
		o.emitTrace(ctx, state.trace)

		sendFinal(answer, verdict.Confidence, provenance, state.trace)
	}()

	return out
}

// send delivers event to out, but abandons the send instead of blocking
// forever if ctx is done (the workflow timeout elapsed or the caller
// cancelled) while a stalled consumer has let the buffered channel fill.
func send(ctx context.Context, out chan<- models.StreamEvent, event models.StreamEvent) {
	// Deliver without waiting whenever the buffer has room, so an already
	// expired ctx cannot win the select below and drop the event.
	select {
	case out <- event:
		return
	default:
	}
	select {
	case out <- event:
	case <-ctx.Done():
	}
}

// workflowExpired reports whether the overall workflow budget has been
// exhausted, per §5's "stops starting new stages" watchdog discipline.
func workflowExpired(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// runPipeline executes the blocking (non-streaming) variant of the
// pipeline shared by Run.
func (o *Orchestrator) runPipeline(
	ctx context.Context,
	query, pdfPath string,
	state *pipelineState,
) (answer string, provenance []models.ProvenanceEntry, verdict verifier.Verdict) {
	chunks, err := o.prepare(pdfPath)
	if err != nil {
		o.logger.Error().Err(err).Str("pdf", pdfPath).Msg("orchestrator: prepare failed")
		return "", nil, verifier.Verdict{}
	}
	chunkTexts := chunkTextsOf(chunks)

	classifierResult := o.classify(query, chunkTexts, state)

	partials, _ := o.retrieve(ctx, query, chunks, state)
	internalFacts := internalFactsFrom(partials)

	var externalSnippets []models.ToolSnippet
	if workflowExpired(ctx) {
		state.recordStage("tool_agent", models.TraceSkipped, time.Now(), nil)
	} else {
		_, externalSnippets, _ = o.externalEvidence(ctx, query, classifierResult, state)
	}

	if !workflowExpired(ctx) {
		o.secondaryCompletion(ctx, query, classifierResult, internalFacts, &externalSnippets, state)
	}
	externalFacts := externalFactsFrom(externalSnippets)

	memoryFacts := o.recallMemory(ctx, query, pdfPath)
	provenance = buildProvenance(internalFacts, externalFacts, pdfPath)

	// The global watchdog: once the overall workflow budget is spent, no
	// further stage is started; whatever evidence was gathered so far is
	// verified and returned as the failsafe result.
	if workflowExpired(ctx) {
		verdict = o.verify("", provenance, partials, externalSnippets, state)
		o.persist(pdfPath, query, "", verdict)
		return "", provenance, verdict
	}

	answer = o.synthesize(ctx, internalFacts, externalFacts, memoryFacts, query, state)

	verdict = o.verify(answer, provenance, partials, externalSnippets, state)

	o.persist(pdfPath, query, answer, verdict)

	return answer, provenance, verdict
}

func (o *Orchestrator) classify(query string, chunkTexts []string, state *pipelineState) classifier.Result {
	start := time.Now()
	result := classifier.Classify(query, chunkTexts, o.cfg.ClassifierThreshold)
	state.classifierDone = true
	state.recordStage("classifier", models.TraceOK, start, map[string]interface{}{
		"internal_sufficient": result.InternalSufficient,
		"max_similarity":      result.MaxSimilarity,
	})
	return result
}

// retrieve runs the retriever agent under its own per-stage timeout and
// reports whether that timeout elapsed, so the caller can emit the
// required "System timed out (retriever)" watchdog event.
func (o *Orchestrator) retrieve(ctx context.Context, query string, chunks []models.Chunk, state *pipelineState) ([]models.PartialAnswer, bool) {
	start := time.Now()
	retrieverCtx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.RetrieverTimeoutSec)*time.Second)
	defer cancel()

	partials := o.retrieverAgent.Retrieve(retrieverCtx, query, chunks)
	state.retrieverDone = true

	timedOut := errors.Is(retrieverCtx.Err(), context.DeadlineExceeded)
	status := models.TraceOK
	if timedOut {
		status = models.TraceError
	}
	state.recordStage("retriever", status, start, map[string]interface{}{"count": len(partials), "timed_out": timedOut})
	return partials, timedOut
}

// externalEvidence runs the primary tool-agent pass, gated on the
// classifier having already run and having found internal evidence
// insufficient, under its own per-stage timeout.
func (o *Orchestrator) externalEvidence(
	ctx context.Context,
	query string,
	classifierResult classifier.Result,
	state *pipelineState,
) (string, []models.ToolSnippet, bool) {
	if !state.classifierDone || !o.cfg.EnableToolAgent || !classifierResult.ExternalNeeded {
		state.toolDone = true
		state.recordStage("tool_agent", models.TraceSkipped, time.Now(), nil)
		return "", nil, false
	}

	start := time.Now()
	toolCtx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.ToolAgentBudgetSec)*time.Second)
	defer cancel()

	text, snippets := o.toolAgent.Run(toolCtx, query)
	state.toolDone = true

	timedOut := errors.Is(toolCtx.Err(), context.DeadlineExceeded)
	status := models.TraceOK
	if timedOut {
		status = models.TraceError
	}
	state.recordStage("tool_agent", status, start, map[string]interface{}{"snippets": len(snippets), "timed_out": timedOut})
	return text, snippets, timedOut
}

// secondaryCompletion runs a targeted external completion pass, under its
// own per-stage timeout, for any named financial slot the question
// mentions that neither internal evidence nor the primary external pass
// appears to cover, per the missing-slot heuristic, and merges any
// resulting snippets into externalSnippets. It returns the names of the
// slots it searched for (whether or not the search returned snippets),
// for the streaming path's log event, and whether its stage timeout
// elapsed.
func (o *Orchestrator) secondaryCompletion(
	ctx context.Context,
	query string,
	classifierResult classifier.Result,
	internalFacts []models.InternalFact,
	externalSnippets *[]models.ToolSnippet,
	state *pipelineState,
) ([]string, bool) {
	if !o.cfg.EnableToolAgent {
		return nil, false
	}
	// A comparison question ("X versus Y") is only as internally
	// sufficient as its weakest side, so it still runs the missing-slot
	// check even when the classifier found the question as a whole
	// sufficient from internal evidence alone.
	if classifierResult.InternalSufficient && !isComparisonQuestion(query) {
		return nil, false
	}

	slots := missingSlots(query)
	if len(slots) == 0 {
		return nil, false
	}

	var combined strings.Builder
	for _, f := range internalFacts {
		combined.WriteString(f.Text)
		combined.WriteString(" ")
	}
	for _, s := range *externalSnippets {
		combined.WriteString(s.Text)
		combined.WriteString(" ")
	}
	uncovered := uncoveredSlots(slots, combined.String())
	if len(uncovered) == 0 {
		return nil, false
	}

	start := time.Now()
	secondaryCtx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.ToolAgentBudgetSec)*time.Second)
	defer cancel()

	_, secondarySnippets := o.toolAgent.RunForSlots(secondaryCtx, query, uncovered)

	timedOut := errors.Is(secondaryCtx.Err(), context.DeadlineExceeded)
	status := models.TraceOK
	if timedOut {
		status = models.TraceError
	}
	state.recordStage("tool_agent_secondary", status, start, map[string]interface{}{"slots": uncovered, "snippets": len(secondarySnippets), "timed_out": timedOut})

	if len(secondarySnippets) > 0 {
		*externalSnippets = append(*externalSnippets, secondarySnippets...)
		state.secondaryCompletionFired = true
	}

	return uncovered, timedOut
}

func uncoveredSlots(slots []string, evidenceText string) []string {
	lower := strings.ToLower(evidenceText)
	var out []string
	for _, slot := range slots {
		covered := false
		for _, trigger := range slotTriggers[slot] {
			if strings.Contains(lower, trigger) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, slot)
		}
	}
	return out
}

func (o *Orchestrator) recallMemory(ctx context.Context, query, pdfPath string) []models.MemoryFact {
	entries := o.memoryStore.Load(pdfPath)
	relevant := memory.FindRelevant(ctx, o.embedder, query, entries, o.cfg.MaxMemoryLoad)

	facts := make([]models.MemoryFact, 0, len(relevant))
	for _, e := range relevant {
		facts = append(facts, models.MemoryFact{Text: e.Question + " -> " + e.Answer, Timestamp: e.Timestamp})
	}
	return facts
}

func (o *Orchestrator) synthesize(
	ctx context.Context,
	internal []models.InternalFact,
	external []models.ExternalFact,
	mem []models.MemoryFact,
	question string,
	state *pipelineState,
) string {
	start := time.Now()

	var answer string
	if o.cfg.EnableReranker && o.cfg.RerankerCandidates > 1 {
		candidates := reranker.GenerateCandidates(ctx, o.synthAgent, internal, external, mem, question, o.cfg.RerankerCandidates)
		best := reranker.Rank(ctx, o.embedder, question, candidates, nil, nil, nil, time.Time{})
		answer = best.Answer
	} else {
		answer = o.synthAgent.Synthesize(ctx, internal, external, mem, question, "")
	}

	state.synthDone = true
	state.recordStage("synthesizer", models.TraceOK, start, nil)
	return answer
}

func (o *Orchestrator) verify(
	answer string,
	provenance []models.ProvenanceEntry,
	partials []models.PartialAnswer,
	externalSnippets []models.ToolSnippet,
	state *pipelineState,
) verifier.Verdict {
	start := time.Now()
	verdict := verifier.Verify(answer, provenance, partials, externalSnippets, time.Time{})
	if state.secondaryCompletionFired {
		verdict.Flags = append(verdict.Flags, verifier.FlagPartialExternalComplete)
	}
	state.verifierDone = true
	state.recordStage("verifier", models.TraceOK, start, map[string]interface{}{"confidence": verdict.Confidence})
	return verdict
}

func (o *Orchestrator) persist(pdfPath, question, answer string, verdict verifier.Verdict) {
	if !o.cfg.SaveMemory {
		return
	}

	entry := models.MemoryEntry{
		ID:         uuid.NewString(),
		Question:   question,
		Answer:     answer,
		Confidence: verdict.Confidence,
		Flags:      verdict.Flags,
	}
	if o.embedder != nil {
		if vec := o.embedder.Embed(context.Background(), question+" "+answer); vec != nil {
			entry.Embedding = vec
			entry.ModelID = o.embedder.ModelID()
		}
	}

	if err := o.memoryStore.Append(pdfPath, entry); err != nil {
		o.logger.Warn().Err(err).Str("pdf", pdfPath).Msg("orchestrator: failed to persist memory entry")
	}
}

func (o *Orchestrator) emitTrace(ctx context.Context, trace []models.TraceEvent) {
	if o.tracer == nil {
		return
	}
	for _, event := range trace {
		o.tracer.Record(ctx, event)
	}
}

func chunkTextsOf(chunks []models.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}

func internalFactsFrom(partials []models.PartialAnswer) []models.InternalFact {
	facts := make([]models.InternalFact, 0, len(partials))
	for _, p := range partials {
		sim := p.Similarity
		facts = append(facts, models.InternalFact{Text: p.Text, Page: p.Page, Similarity: &sim})
	}
	return facts
}

func externalFactsFrom(snippets []models.ToolSnippet) []models.ExternalFact {
	facts := make([]models.ExternalFact, 0, len(snippets))
	for _, s := range snippets {
		if s.Error {
			continue
		}
		facts = append(facts, models.ExternalFact{Text: s.Text, URL: s.URL, Tool: s.Tool, Category: s.Category})
	}
	return facts
}

// buildProvenance builds one ProvenanceEntry per fact used in synthesis,
// in fact-list order (internal facts first, then external facts), never
// from anything the model wrote. Text is truncated to
// models.ProvenanceMaxTextLen.
func buildProvenance(internal []models.InternalFact, external []models.ExternalFact, source string) []models.ProvenanceEntry {
	entries := make([]models.ProvenanceEntry, 0, len(internal)+len(external))

	for _, f := range internal {
		entries = append(entries, models.ProvenanceEntry{
			Type:       models.ProvenanceInternal,
			Source:     source,
			Page:       f.Page,
			Text:       truncateText(f.Text),
			Similarity: f.Similarity,
		})
	}

	for _, f := range external {
		entries = append(entries, models.ProvenanceEntry{
			Type:     models.ProvenanceExternal,
			Source:   f.URL,
			Tool:     f.Tool,
			Category: f.Category,
			Text:     truncateText(f.Text),
		})
	}

	return entries
}

func truncateText(s string) string {
	runes := []rune(s)
	if len(runes) <= models.ProvenanceMaxTextLen {
		return s
	}
	return string(runes[:models.ProvenanceMaxTextLen])
}
