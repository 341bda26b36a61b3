package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/homesync/homesync/internal/inventory"
	"github.com/homesync/homesync/internal/llm"
	"github.com/homesync/homesync/internal/observability"
)

// Apology replaces every pipeline failure. No error class reaches the
// user with more detail than this.
const Apology = "Sorry, I could not understand, try a different query."

// Prompt templates are versioned; behavioral directives live in the
// template text itself because the model's adherence to them is the
// correctness contract.
const sqlPromptV1 = `You are an AI data analyst who manages a Home Inventory. You are interacting with a user who is asking you questions about the Home Inventory's database.
Based on the table schema below, write a SQL query that would answer the user's question. Take the conversation history into account.

When asked 'show items present', display all the items with the quantity present and do not generate a food recipe or anything else.
When asked for 'shopping list' create a list of items from the table whose quantity is less than 3, if there are none then say 'you don't need anything currently' and do not give me anything except the list of items needed.
Also, generate a food recipe from the food items present in Inventory only when asked 'generate recipe' and do not display food recipe for any other query.

<SCHEMA>{schema}</SCHEMA>

Conversation History: {chat_history}

Write only the SQL query and nothing else. Do not wrap the SQL query in any other text, not even backticks. Do not respond with 'based on your SQL query'.

For example:
Question: which 3 artists have the most tracks?
SQL Query: SELECT ArtistId, COUNT(*) as track_count FROM Track GROUP BY ArtistId ORDER BY track_count DESC LIMIT 3;
Question: Name 10 artists
SQL Query: SELECT Name FROM Artist LIMIT 10;

Your turn:

Question: {question}
SQL Query:`

const answerPromptV1 = `You are an AI data analyst who manages a Home Inventory. You are interacting with a user who is asking you questions about the Home Inventory's database.
Based on the table schema below, question, SQL query, and SQL response, write a natural language response.

When asked 'show items present', just display the items with the quantity.
When asked for 'shopping list' create a list of items from the table whose quantity is less than 3, if there are none then say 'you don't need anything currently' and do not give me anything except the list of items needed.
Also, generate a food recipe from the food items present in Inventory only when asked 'generate recipe' and do not display food recipe for any other query.

<SCHEMA>{schema}</SCHEMA>

Conversation History: {chat_history}
SQL Query: <SQL>{query}</SQL>
User question: {question}
SQL Response: {response}`

// Pipeline is the two-stage NL to SQL to NL chain. Stage A asks the
// model for raw SQL; Stage B executes that SQL as written and asks the
// model to narrate the result.
type Pipeline struct {
	store  inventory.Store
	model  llm.Client
	logger *slog.Logger
}

func NewPipeline(store inventory.Store, model llm.Client, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{store: store, model: model, logger: logger}
}

// Respond runs both stages for one question. Every failure collapses to
// the fixed apology; the underlying cause goes to the log only.
func (p *Pipeline) Respond(ctx context.Context, history *History, question string) string {
	reply, err := p.respond(ctx, history, question)
	if err != nil {
		observability.IncrementPipelineFailure()
		p.logger.WarnContext(ctx, "generation pipeline failed",
			slog.String("trace_id", observability.TraceIDFromContext(ctx)),
			slog.String("error", err.Error()),
		)
		return Apology
	}
	return reply
}

func (p *Pipeline) respond(ctx context.Context, history *History, question string) (string, error) {
	schema, err := p.store.SchemaText(ctx)
	if err != nil {
		return "", err
	}
	renderedHistory := history.Render()

	sqlPrompt := renderTemplate(sqlPromptV1, map[string]string{
		"schema":       schema,
		"chat_history": renderedHistory,
		"question":     question,
	})
	start := time.Now()
	rawSQL, err := p.model.Complete(ctx, sqlPrompt)
	observability.ObserveModelCall("sql", time.Since(start))
	if err != nil {
		return "", err
	}
	query := llm.StripMarkdown(rawSQL)

	result, err := p.store.RunRead(ctx, query)
	if err != nil {
		return "", err
	}

	answerPrompt := renderTemplate(answerPromptV1, map[string]string{
		"schema":       schema,
		"chat_history": renderedHistory,
		"query":        query,
		"question":     question,
		"response":     result.Format(),
	})
	start = time.Now()
	answer, err := p.model.Complete(ctx, answerPrompt)
	observability.ObserveModelCall("answer", time.Since(start))
	if err != nil {
		return "", err
	}
	return answer, nil
}

func renderTemplate(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
