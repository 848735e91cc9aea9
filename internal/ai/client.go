// Package ai turns free-form household chatter into structured intents
// via an OpenAI-compatible chat endpoint.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	api   *openai.Client
	model string
}

func New(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

func (c *Client) SetModel(model string) {
	c.model = model
}

// Intent is the structured form of one user request.
type Intent struct {
	Action             string            `json:"action"`
	Entity             string            `json:"entity"`
	Parameters         map[string]string `json:"parameters"`
	Confidence         float64           `json:"confidence"`
	NeedsConfirmation  bool              `json:"needs_confirmation"`
	ConfirmationReason string            `json:"confirmation_reason"`
	// Multi-turn fields
	NeedMoreInfo   bool   `json:"need_more_info"`
	FollowUpPrompt string `json:"follow_up_prompt"`
	AIMessage      string `json:"ai_message"`
	RawResponse    string `json:"-"`
}

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const systemPromptTemplate = `You are the household assistant. Parse the user's natural language into a structured intent.

Current time: %s

Available actions:
- add_event: add a calendar event
- list_events: list calendar events (keyword optional)
- delete_event: delete a calendar event
- show_agenda: show the upcoming agenda (days optional, default 7)
- show_conflicts: find clashing calendar entries (days optional, default 7)
- add_chore: add a household chore
- list_chores: list open chores
- complete_chore: mark a chore done
- add_bill: add a bill to track
- list_bills: list unpaid bills
- pay_bill: mark a bill paid
- add_shopping: add an item to the shopping list
- list_shopping: show the shopping list
- buy_shopping: tick an item off the shopping list
- plan_meal: plan a meal for a day and slot
- list_meals: show the meal plan
- unknown: cannot recognise the request

Parameters by action:
- id: item number (for delete, complete, pay and buy operations)
- keyword: search keyword for list operations
- title: title (event, chore)
- description: longer description
- location: where an event happens
- start_time / end_time: event times (format: YYYY-MM-DD HH:MM)
- due_time: chore or bill due time (format: YYYY-MM-DD HH:MM)
- rrule: recurrence in RRULE syntax using only FREQ, INTERVAL, BYDAY, COUNT and UNTIL, e.g. "FREQ=WEEKLY;BYDAY=MO" for weekly on Mondays
- amount: bill amount in dollars
- name: bill or shopping item name
- quantity: shopping quantity, e.g. "2" or "1 kg"
- date: meal date (format: YYYY-MM-DD)
- slot: meal slot (breakfast, lunch or dinner)
- recipe: what to cook
- days: window length in days for agenda or conflict queries

Important rules:
1. Resolve relative times ("tomorrow", "next Monday", "in 3 hours") against the current time and output concrete values in the formats above.

2. Recurring phrases map to rrule: "every day" -> FREQ=DAILY, "every week on Tuesday" -> FREQ=WEEKLY;BYDAY=TU, "every second Saturday" -> FREQ=WEEKLY;INTERVAL=2;BYDAY=SA, "monthly" -> FREQ=MONTHLY. Never invent RRULE keys beyond the five listed.

3. Set needs_confirmation = true when:
   - the action deletes something (delete_*)
   - a bill amount is above 1000
   - the time is ambiguous, e.g. "tomorrow" said between 00:00 and 06:00

4. confirmation_reason states briefly what needs confirming, e.g. "Delete event #3?" or "Record a $2,400 bill?".

5. Multi-turn rules:
   - Set need_more_info = true when the request cannot be executed yet.
   - follow_up_prompt: the question to ask the user (only when need_more_info is true).
   - ai_message: a friendly reply to show the user, used for follow-up questions, completion confirmations and small talk (action = unknown).

   Examples that need a follow-up:
   - "delete that event" without a number -> ask which one
   - "add a bill" without an amount -> ask how much
   - "plan dinner" without a day -> ask for the day

6. Earlier assistant turns carry the results of completed operations. Use them to resolve references like "the first one" or "that bill".`

func systemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, now.Format("2006-01-02 15:04 (Monday)"))
}

// intentSchema constrains the model's reply in strict structured-output
// mode, so a successful call always yields a decodable intent.
var intentSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"action": {
			"type": "string",
			"enum": ["add_event", "list_events", "delete_event", "show_agenda", "show_conflicts", "add_chore", "list_chores", "complete_chore", "add_bill", "list_bills", "pay_bill", "add_shopping", "list_shopping", "buy_shopping", "plan_meal", "list_meals", "unknown"],
			"description": "What the user wants done"
		},
		"entity": {
			"type": "string",
			"description": "The kind of thing the action operates on"
		},
		"parameters": {
			"type": "object",
			"additionalProperties": {
				"type": "string"
			},
			"description": "String-valued arguments for the action"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Parser confidence between 0 and 1"
		},
		"needs_confirmation": {
			"type": "boolean",
			"description": "True when the action should be confirmed before running"
		},
		"confirmation_reason": {
			"type": "string",
			"description": "Short question to show when asking for confirmation"
		},
		"need_more_info": {
			"type": "boolean",
			"description": "True when the request cannot run without more detail"
		},
		"follow_up_prompt": {
			"type": "string",
			"description": "Question to ask the user when need_more_info is true"
		},
		"ai_message": {
			"type": "string",
			"description": "Conversational reply to show the user"
		}
	},
	"required": ["action", "confidence", "needs_confirmation", "need_more_info"],
	"additionalProperties": false
}`)

// ParseIntentWithHistory parses the latest user turn in the context of the
// running conversation. The last element of history is the turn to parse.
func (c *Client) ParseIntentWithHistory(ctx context.Context, history []Message) (*Intent, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt(time.Now()),
	})
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "intent",
				Schema: intentSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	intent := &Intent{RawResponse: content}
	if err := json.Unmarshal([]byte(content), intent); err != nil {
		return nil, fmt.Errorf("decoding intent: %w", err)
	}
	return intent, nil
}

// ParseIntent is the single-shot form of ParseIntentWithHistory.
func (c *Client) ParseIntent(ctx context.Context, userMessage string) (*Intent, error) {
	return c.ParseIntentWithHistory(ctx, []Message{{Role: "user", Content: userMessage}})
}
