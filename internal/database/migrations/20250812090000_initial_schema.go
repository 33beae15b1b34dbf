package migrations

import (
	"context"
	"fmt"

	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []struct {
			model any
			name  string
		}{
			{(*types.Tutor)(nil), "tutors"},
			{(*types.TutorGoal)(nil), "tutor_goals"},
			{(*types.TutorPrice)(nil), "tutor_prices"},
			{(*types.TutorSubjectComment)(nil), "tutor_subject_comments"},
			{(*types.TutorEducation)(nil), "tutor_education"},
			{(*types.Order)(nil), "orders"},
			{(*types.Chat)(nil), "chats"},
			{(*types.ChatMessage)(nil), "chat_messages"},
			{(*types.Contract)(nil), "contracts"},
		}

		for _, m := range models {
			_, err := db.NewCreateTable().
				Model(m.model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %s: %w", m.name, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{
			"contracts", "chat_messages", "chats", "orders",
			"tutor_education", "tutor_subject_comments", "tutor_prices",
			"tutor_goals", "tutors",
		}

		for _, table := range tables {
			if _, err := db.NewDropTable().Table(table).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
