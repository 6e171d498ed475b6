package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddMemeIndexes, downAddMemeIndexes)
}

func upAddMemeIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE INDEX IF NOT EXISTS idx_memes_post_date ON memes (post_date);
	CREATE INDEX IF NOT EXISTS idx_memes_collected_at ON memes (collected_at);
	CREATE INDEX IF NOT EXISTS idx_memes_source_platform ON memes (source_platform);
	CREATE INDEX IF NOT EXISTS idx_tags_tag ON tags (tag);
	`)
	return err
}

func downAddMemeIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP INDEX IF EXISTS idx_tags_tag;
	DROP INDEX IF EXISTS idx_memes_source_platform;
	DROP INDEX IF EXISTS idx_memes_collected_at;
	DROP INDEX IF EXISTS idx_memes_post_date;
	`)
	return err
}
