package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// VoteReceipt computes the deterministic one-way digest issued to a voter at
// cast time. The digest binds (election, voter, candidate, logical timestamp)
// but cannot be inverted to recover the candidate choice.
func VoteReceipt(electionID uint64, voter string, candidateID uint64, castAt time.Time) string {
	payload := map[string]string{
		"election_id":  strconv.FormatUint(electionID, 10),
		"voter":        strings.TrimSpace(voter),
		"candidate_id": strconv.FormatUint(candidateID, 10),
		"cast_at":      castAt.UTC().Format(time.RFC3339Nano),
		"op":           "vote_receipt",
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
