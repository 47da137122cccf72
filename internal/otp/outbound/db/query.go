package db

const queryCreateRecord = `
INSERT INTO otp_records (id, identifier, code_hash, created_at, expires_at, used)
VALUES ($1, $2, $3, $4, $5, FALSE)`

const queryCountCreatedSince = `
SELECT COUNT(*) FROM otp_records
WHERE identifier = $1 AND created_at >= $2`

const queryFindValid = `
SELECT id, identifier, code_hash, created_at, expires_at, used, used_at
FROM otp_records
WHERE identifier = $1 AND code_hash = $2 AND used = FALSE AND expires_at > $3
ORDER BY created_at DESC, id DESC
LIMIT 1`

// queryMarkUsed is the compare-and-set. Zero affected rows means another
// verification won or the record expired.
const queryMarkUsed = `
UPDATE otp_records SET used = TRUE, used_at = $2
WHERE id = $1 AND used = FALSE AND expires_at > $2`

const queryHasVerifiedSince = `
SELECT EXISTS (
    SELECT 1 FROM otp_records
    WHERE identifier = $1 AND used = TRUE AND created_at >= $2
)`

const queryListRecent = `
SELECT id, identifier, code_hash, created_at, expires_at, used, used_at
FROM otp_records
WHERE identifier = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

const queryListCreatedBefore = `
SELECT id, identifier, code_hash, created_at, expires_at, used, used_at
FROM otp_records
WHERE created_at < $1 AND id > $2
ORDER BY id
LIMIT $3`

const queryDeleteCreatedBefore = `
DELETE FROM otp_records WHERE created_at < $1`
