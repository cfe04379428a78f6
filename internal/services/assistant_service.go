package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"wastex-backend/internal/llm"
	"wastex-backend/internal/models"
)

const assistantSystemPrompt = "You are a financial assistant for a waste-management company. " +
	"Answer questions about payroll, receivables and the ledger using the provided tools. " +
	"Amounts are in USD. Be concise and state the date range you used."

// apologyReply is returned verbatim whenever the model or a tool fails; the
// caller never sees raw errors.
const apologyReply = "Sorry, I wasn't able to answer that right now. Please try again in a moment."

// Model call ceiling per user message. One round of tool calls plus the
// final answer fits in three; anything past that is the model looping.
const maxModelCalls = 3

// ReportSource is the slice of the report service the assistant tools use.
type ReportSource interface {
	Payroll(ctx context.Context, start, end time.Time) (*PayrollReport, error)
	Receivables(ctx context.Context, entity string) (*AgingReport, error)
}

// JournalSource serves raw ledger lines for the generic query tool.
type JournalSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.LedgerRow, error)
}

// AssistantService answers natural-language finance questions by looping the
// model through tool calls: the model either answers directly or requests
// tools, whose results are fed back for a final grounded answer.
type AssistantService struct {
	Provider llm.Provider
	Reports  ReportSource
	Journal  JournalSource
}

func NewAssistantService(provider llm.Provider, reports ReportSource, journal JournalSource) *AssistantService {
	return &AssistantService{
		Provider: provider,
		Reports:  reports,
		Journal:  journal,
	}
}

// AssistantReply is the assistant's answer plus which tools it consulted.
type AssistantReply struct {
	Reply     string   `json:"reply"`
	ToolsUsed []string `json:"tools_used,omitempty"`
}

func (s *AssistantService) tools() []llm.Tool {
	dateRangeParams := json.RawMessage(`{
		"type": "object",
		"properties": {
			"start_date": {"type": "string", "description": "Start date, YYYY-MM-DD"},
			"end_date": {"type": "string", "description": "End date, YYYY-MM-DD"}
		},
		"required": ["start_date", "end_date"]
	}`)

	return []llm.Tool{
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        "payments_summary",
				Description: "Total payroll payments by department and employee for a date range.",
				Parameters:  dateRangeParams,
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        "receivables_aging",
				Description: "Accounts-receivable aging buckets per customer as of today.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"customer": {"type": "string", "description": "Optional customer name filter"}
					}
				}`),
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        "ledger_query",
				Description: "Raw journal lines for a date range, for questions the summary reports cannot answer.",
				Parameters:  dateRangeParams,
			},
		},
	}
}

// Answer runs the tool loop for one user message and returns the reply.
// Any model or tool failure collapses to the static apology.
func (s *AssistantService) Answer(ctx context.Context, userMessage string) *AssistantReply {
	if s.Provider == nil {
		return &AssistantReply{Reply: apologyReply}
	}

	messages := []llm.ChatMessage{
		{Role: "system", Content: assistantSystemPrompt},
		{Role: "user", Content: userMessage},
	}
	tools := s.tools()
	var toolsUsed []string

	for call := 0; call < maxModelCalls; call++ {
		resp, err := s.Provider.Complete(ctx, &llm.ChatRequest{
			Messages:    messages,
			Tools:       tools,
			Temperature: 0.2,
			MaxTokens:   800,
		})
		if err != nil {
			log.Printf("[Assistant] Model call failed: %v", err)
			return &AssistantReply{Reply: apologyReply}
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			if msg.Content == "" {
				return &AssistantReply{Reply: apologyReply, ToolsUsed: toolsUsed}
			}
			return &AssistantReply{Reply: msg.Content, ToolsUsed: toolsUsed}
		}

		messages = append(messages, msg)
		for _, tc := range msg.ToolCalls {
			result, err := s.executeTool(ctx, tc)
			if err != nil {
				log.Printf("[Assistant] Tool %s failed: %v", tc.Function.Name, err)
				return &AssistantReply{Reply: apologyReply, ToolsUsed: toolsUsed}
			}
			toolsUsed = append(toolsUsed, tc.Function.Name)
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				ToolCallID: tc.ID,
				Name:       tc.Function.Name,
				Content:    result,
			})
		}
	}

	log.Printf("[Assistant] Tool loop exceeded %d model calls", maxModelCalls)
	return &AssistantReply{Reply: apologyReply, ToolsUsed: toolsUsed}
}

func (s *AssistantService) executeTool(ctx context.Context, tc llm.ToolCall) (string, error) {
	switch tc.Function.Name {
	case "payments_summary":
		return s.paymentsSummary(ctx, tc.Function.Arguments)
	case "receivables_aging":
		return s.receivablesAging(ctx, tc.Function.Arguments)
	case "ledger_query":
		return s.ledgerQuery(ctx, tc.Function.Arguments)
	default:
		return "", fmt.Errorf("unknown tool %q", tc.Function.Name)
	}
}

type dateRangeArgs struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func parseDateRange(raw string) (start, end time.Time, err error) {
	var args dateRangeArgs
	if err = json.Unmarshal([]byte(raw), &args); err != nil {
		return start, end, fmt.Errorf("invalid tool arguments: %w", err)
	}
	start, err = time.Parse("2006-01-02", args.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid start date %q", args.StartDate)
	}
	end, err = time.Parse("2006-01-02", args.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid end date %q", args.EndDate)
	}
	return start, end, nil
}

func (s *AssistantService) paymentsSummary(ctx context.Context, raw string) (string, error) {
	start, end, err := parseDateRange(raw)
	if err != nil {
		return "", err
	}
	report, err := s.Reports.Payroll(ctx, start, end)
	if err != nil {
		return "", err
	}
	return marshalToolResult(report)
}

func (s *AssistantService) receivablesAging(ctx context.Context, raw string) (string, error) {
	var args struct {
		Customer string `json:"customer"`
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return "", fmt.Errorf("invalid tool arguments: %w", err)
		}
	}
	report, err := s.Reports.Receivables(ctx, args.Customer)
	if err != nil {
		return "", err
	}
	return marshalToolResult(report)
}

func (s *AssistantService) ledgerQuery(ctx context.Context, raw string) (string, error) {
	start, end, err := parseDateRange(raw)
	if err != nil {
		return "", err
	}
	rows, err := s.Journal.ListByDateRange(ctx, start, end)
	if err != nil {
		return "", err
	}
	if rows == nil {
		rows = []*models.LedgerRow{}
	}
	return marshalToolResult(rows)
}

func marshalToolResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(data), nil
}
