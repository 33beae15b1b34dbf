package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Enumeration cursor for the reputation orchestrator
			CREATE INDEX IF NOT EXISTS idx_tutors_created_at_id
			ON tutors (created_at, id);

			-- Matching filter entry points
			CREATE INDEX IF NOT EXISTS idx_tutors_status_region
			ON tutors (status, region);

			CREATE INDEX IF NOT EXISTS idx_tutors_subjects
			ON tutors USING GIN (subjects);

			CREATE INDEX IF NOT EXISTS idx_tutor_goals_subject_goal
			ON tutor_goals (subject_id, goal_id, tutor_id);

			-- Window aggregations for the reputation pipeline
			CREATE INDEX IF NOT EXISTS idx_chats_tutor_created
			ON chats (tutor_id, created_at);

			CREATE INDEX IF NOT EXISTS idx_chats_created
			ON chats (created_at);

			CREATE INDEX IF NOT EXISTS idx_chat_messages_chat_sent
			ON chat_messages (chat_id, sent_at)
			WHERE from_tutor;

			CREATE INDEX IF NOT EXISTS idx_contracts_tutor_selected
			ON contracts (tutor_id, selected_at);

			CREATE INDEX IF NOT EXISTS idx_contracts_selected
			ON contracts (selected_at);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_tutors_created_at_id;
			DROP INDEX IF EXISTS idx_tutors_status_region;
			DROP INDEX IF EXISTS idx_tutors_subjects;
			DROP INDEX IF EXISTS idx_tutor_goals_subject_goal;
			DROP INDEX IF EXISTS idx_chats_tutor_created;
			DROP INDEX IF EXISTS idx_chats_created;
			DROP INDEX IF EXISTS idx_chat_messages_chat_sent;
			DROP INDEX IF EXISTS idx_contracts_tutor_selected;
			DROP INDEX IF EXISTS idx_contracts_selected;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
