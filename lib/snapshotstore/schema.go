package snapshotstore

const Schema = `
CREATE TABLE IF NOT EXISTS snapshot (
    user_id  TEXT    NOT NULL,
    taken_at INTEGER NOT NULL,
    document BLOB    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshot_user_time
    ON snapshot (user_id, taken_at);
`
