package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateMemes, downCreateMemes)
}

func upCreateMemes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS memes (
		id              BIGSERIAL PRIMARY KEY,
		image_url       TEXT UNIQUE,
		local_path      TEXT,
		source_url      TEXT,
		source_platform TEXT,
		post_date       TIMESTAMP WITH TIME ZONE,
		collected_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		likes           BIGINT,
		views           BIGINT,
		comments        BIGINT,
		shares          BIGINT,
		text_content    TEXT,
		image_hash      TEXT
	);

	CREATE TABLE IF NOT EXISTS tags (
		id      BIGSERIAL PRIMARY KEY,
		meme_id BIGINT NOT NULL REFERENCES memes(id) ON DELETE CASCADE,
		tag     TEXT NOT NULL,
		UNIQUE (meme_id, tag)
	);
	`)
	return err
}

func downCreateMemes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE IF EXISTS tags;
	DROP TABLE IF EXISTS memes;
	`)
	return err
}
