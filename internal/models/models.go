// Package models holds the shared data shapes that flow between the
// orchestration core's components: chunks, embeddings, facts, provenance,
// tool snippets, memory entries, and stream/trace events.
package models

// Chunk is a contiguous slice of extracted PDF text.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Page  *int   `json:"page,omitempty"`
}

// Embedding is a fixed-length numeric vector representing a piece of text.
type Embedding struct {
	Vector  []float32 `json:"vector"`
	ModelID string    `json:"model_id"`
}

// PartialAnswer is the retriever agent's output for one relevant chunk.
type PartialAnswer struct {
	Text       string  `json:"text"`
	ChunkText  string  `json:"chunk_text"`
	Page       *int    `json:"page,omitempty"`
	Similarity float64 `json:"similarity"`
}

// InternalFact is evidence drawn from the source PDF.
type InternalFact struct {
	Text       string   `json:"text"`
	Page       *int     `json:"page,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
}

// ExternalFact is evidence drawn from a tool/provider call.
type ExternalFact struct {
	Text     string `json:"text"`
	URL      string `json:"url"`
	Tool     string `json:"tool"`
	Category string `json:"category"`
}

// MemoryFact is evidence drawn from a prior Q&A on the same PDF.
type MemoryFact struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// ProvenanceType enumerates where a provenance entry's evidence came from.
type ProvenanceType string

const (
	ProvenanceInternal ProvenanceType = "internal"
	ProvenanceExternal ProvenanceType = "external"
)

// ProvenanceMaxTextLen is the maximum length of a provenance entry's Text
// field; longer source text is truncated.
const ProvenanceMaxTextLen = 500

// ProvenanceEntry is an authoritative attribution of one piece of synthesis
// evidence to a source. Built exclusively by the orchestrator, never by an
// LLM.
type ProvenanceEntry struct {
	Type       ProvenanceType `json:"type"`
	Source     string         `json:"source"`
	Page       *int           `json:"page,omitempty"`
	Tool       string         `json:"tool,omitempty"`
	Category   string         `json:"category,omitempty"`
	Text       string         `json:"text"`
	Similarity *float64       `json:"similarity,omitempty"`
}

// ToolSnippet is the normalized output of a single tool/provider call.
type ToolSnippet struct {
	Tool      string `json:"tool"`
	Category  string `json:"category"`
	Text      string `json:"text"`
	URL       string `json:"url"`
	FetchedAt int64  `json:"fetched_at"`
	Error     bool   `json:"error,omitempty"`
}

// MemoryEntry is a persisted Q&A record for one PDF.
type MemoryEntry struct {
	ID         string            `json:"id"`
	Timestamp  int64             `json:"timestamp"`
	Question   string            `json:"question"`
	Answer     string            `json:"answer"`
	Confidence float64           `json:"confidence"`
	Flags      []string          `json:"flags"`
	Provenance []ProvenanceEntry `json:"provenance"`
	Embedding  []float32         `json:"embedding,omitempty"`
	ModelID    string            `json:"model_id,omitempty"`
}

// TraceStatus enumerates the outcome of one pipeline stage.
type TraceStatus string

const (
	TraceOK      TraceStatus = "ok"
	TraceError   TraceStatus = "error"
	TraceSkipped TraceStatus = "skipped"
)

// TraceEvent records the outcome of one orchestrator stage.
type TraceEvent struct {
	Agent     string                 `json:"agent"`
	Status    TraceStatus            `json:"status"`
	LatencyMS int64                  `json:"latency_ms"`
	Timestamp int64                  `json:"timestamp"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// StreamEventType enumerates the kinds of event the streaming protocol emits.
type StreamEventType string

const (
	StreamLog   StreamEventType = "log"
	StreamToken StreamEventType = "token"
	StreamError StreamEventType = "error"
	StreamFinal StreamEventType = "final"
)

// StreamEvent is one event of the orchestrator's streaming protocol. Every
// invocation of RunStream emits exactly one StreamFinal event, and it is
// always the last event.
type StreamEvent struct {
	Type       StreamEventType   `json:"type"`
	Message    string            `json:"message,omitempty"`
	Text       string            `json:"text,omitempty"`
	Answer     string            `json:"answer,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Provenance []ProvenanceEntry `json:"provenance,omitempty"`
	Trace      []TraceEvent      `json:"trace,omitempty"`
}

// Result is the return shape of the blocking orchestrator entry point.
type Result struct {
	Answer     string            `json:"answer"`
	Confidence float64           `json:"confidence"`
	Provenance []ProvenanceEntry `json:"provenance"`
	Trace      []TraceEvent      `json:"trace"`
	Flags      []string          `json:"flags"`
}
