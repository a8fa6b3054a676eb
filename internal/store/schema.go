package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repos.
const (
	tableHighScores    = "high_scores"
	tablePreferences   = "preferences"
	tableBankQuestions = "bank_questions"
	tableLLMRequests   = "llm_requests"
)

func highScoresTable() *schema.Table {
	return schema.NewTable(tableHighScores).
		AddPrimary(&schema.Column{Name: "subject_key", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "high_score", Type: field.TypeInt, Default: 0}).
		AddColumn(&schema.Column{Name: "attempts", Type: field.TypeInt, Default: 0}).
		AddColumn(&schema.Column{Name: "updated_at", Type: field.TypeInt64, Default: 0})
}

func preferencesTable() *schema.Table {
	return schema.NewTable(tablePreferences).
		AddPrimary(&schema.Column{Name: "name", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "value", Type: field.TypeString})
}

func bankQuestionsTable() *schema.Table {
	return schema.NewTable(tableBankQuestions).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(&schema.Column{Name: "subject_key", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "prompt", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "options", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "correct_option", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "model", Type: field.TypeString, Default: ""}).
		AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64}).
		AddIndex("bankquestion_subject_key_prompt", true, []string{"subject_key", "prompt"})
}

func llmRequestsTable() *schema.Table {
	return schema.NewTable(tableLLMRequests).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(&schema.Column{Name: "provider", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "model", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "purpose", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "input_tokens", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "output_tokens", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "latency_ms", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "success", Type: field.TypeBool}).
		AddColumn(&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""}).
		AddColumn(&schema.Column{Name: "request_body", Type: field.TypeString, Default: ""}).
		AddColumn(&schema.Column{Name: "response_body", Type: field.TypeString, Default: ""}).
		AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64})
}

// tables lists every table the store manages, in creation order.
func tables() []*schema.Table {
	return []*schema.Table{
		highScoresTable(),
		preferencesTable(),
		bankQuestionsTable(),
		llmRequestsTable(),
	}
}

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables()...)
}
