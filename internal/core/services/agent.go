package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driven"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driving"
	"github.com/finchat-labs/finchat-cli/internal/logger"
)

// Ensure AgentService implements the interface.
var _ driving.Agent = (*AgentService)(nil)

// retrievalK is how many documents the agent pulls as answer context.
const retrievalK = 10

const rewritePrompt = `Based on the chat history provided, rewrite the user's 'Follow-up Question' into a single, self-contained, standalone question. The new question should be complete enough to be understood without the chat history.

**Chat History:**
%s

**Follow-up Question:**
%s

**Standalone Question:**
`

const answerPrompt = `You are a highly specialized financial analyst AI assistant. Your purpose is to answer questions strictly based on the financial data provided in the 'CONTEXT' section.

**Available Data Tables:**
You have access to the following financial tables for each company:
- ` + "`key_financials`" + `: Contains core profitability metrics like Sales, Adjusted EBITDA, and profit margins.
- ` + "`cash_flow_and_leverage`" + `: Contains data on debt, cash, and leverage multiples like Net Debt and Net Leverage.
- ` + "`cap_table`" + `: Provides a detailed breakdown of a company's debt instruments, including security, maturity, and rates.

**Rules and Constraints:**
1.  **Strictly Grounded:** Answer ONLY using the information from the 'CONTEXT'. Do not use any prior knowledge or information from outside the provided context.
2.  **Acknowledge Limitations:** If the answer is not available in the context, you MUST say that you do not have information to answer this question. Do not try to guess or infer.
3.  **Cite Sources:** Every piece of information you provide MUST be followed by a citation. The citation should be the source URL from the context document, formatted as ` + "`[cite: source_url]`" + `.
4.  **Be Concise:** Provide direct and precise answers. Do not add conversational fluff unless the user asks for it.
5.  **Be Proactive:** After answering, you may suggest a relevant next step as a brief question based on the available data tables. Examples: "Compare to 2023?", "Calculate the YoY change?"
6.  **Handle Ambiguity:** If the question is ambiguous (e.g., "what is the revenue?" without a year), use the most relevant data available and ask a clarifying question inviting the user to explore further.
7.  **Use Conversation History:** Refer to the 'CONVERSATION HISTORY' to understand follow-up questions; it tells you which company and metric the user is still talking about.
8.  **Consolidate Citations:** If multiple pieces of information come from the same source, consolidate the citations.

**Output Format:**
- For numerical data, present it clearly with appropriate units.
- For comparisons or summaries, use bullet points.
- Always attach citations after the relevant information.

--------------------

**CONTEXT:**
%s

--------------------

**CONVERSATION HISTORY:**
%s

--------------------

**USER QUESTION:**
%s

**YOUR ANSWER:**
`

// AgentService orchestrates retrieval and generation: it extracts a
// company filter from the query, retrieves grounding context and asks
// the LLM for a citation-bearing answer.
type AgentService struct {
	retriever driving.Retriever
	llm       driven.LLMService
}

// NewAgentService creates an agent over the given retriever and LLM.
// The llm parameter is optional; without it queries are answered with
// domain.ErrLLMUnavailable and rewriting degrades to a no-op.
func NewAgentService(retriever driving.Retriever, llm driven.LLMService) *AgentService {
	return &AgentService{retriever: retriever, llm: llm}
}

// StandaloneQuestion rewrites a follow-up query into a self-contained
// question. With no history (or no LLM) the query passes through
// unchanged.
func (a *AgentService) StandaloneQuestion(ctx context.Context, query string, history []domain.Message) (string, error) {
	if len(history) == 0 {
		return query, nil
	}
	if a.llm == nil {
		logger.Warn("No LLM configured, skipping query rewrite")
		return query, nil
	}

	prompt := fmt.Sprintf(rewritePrompt, formatHistory(history), query)
	rewritten, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("rewrite query: %w", err)
	}

	rewritten = strings.TrimSpace(rewritten)
	logger.Info("Rewrote query to: %q", rewritten)
	return rewritten, nil
}

// Respond answers the user's query grounded in retrieved context.
func (a *AgentService) Respond(ctx context.Context, query, standalone string, history []domain.Message) (string, error) {
	if a.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	company := a.extractCompanyFilter(standalone)
	logger.Info("Searching context: query=%q company=%q", standalone, company)

	docs, err := a.retriever.Search(ctx, standalone, domain.SearchOptions{K: retrievalK, Company: company})
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}

	prompt := a.buildPrompt(query, docs, history)
	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// extractCompanyFilter finds a known company name mentioned in the
// query, case-insensitively. First match in first-ingested order wins.
func (a *AgentService) extractCompanyFilter(query string) string {
	q := strings.ToLower(query)
	for _, company := range a.retriever.KnownCompanies() {
		if strings.Contains(q, strings.ToLower(company)) {
			logger.Debug("Extracted company filter %q", company)
			return company
		}
	}
	return ""
}

// buildPrompt assembles the grounded answer prompt from the retrieved
// documents and the conversation history.
func (a *AgentService) buildPrompt(query string, docs []domain.Document, history []domain.Message) string {
	contextStr := "No relevant data found in the knowledge base."
	if len(docs) > 0 {
		parts := make([]string, len(docs))
		for i, doc := range docs {
			parts[i] = fmt.Sprintf("Source URL: %s\n\n%s", doc.Metadata.SourceURL, doc.Content)
		}
		contextStr = strings.Join(parts, "\n\n---\n\n")
	}

	historyStr := "This is the beginning of the conversation."
	if len(history) > 0 {
		historyStr = formatHistory(history)
	}

	return fmt.Sprintf(answerPrompt, contextStr, historyStr, query)
}

func formatHistory(history []domain.Message) string {
	lines := make([]string, len(history))
	for i, msg := range history {
		lines[i] = fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}
	return strings.Join(lines, "\n")
}
