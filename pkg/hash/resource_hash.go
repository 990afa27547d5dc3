package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Store/sync metadata must not participate in change detection, otherwise
// every run would see its own bookkeeping as a change.
var excludeFields = []string{
	"_id",
	"resourceHash",
	"createdAt",
	"updatedAt",
	"lastSyncTime",
	"syncRunId",
}

// CalculateResourceHash returns a stable SHA-256 over the business fields of
// obj. The object is normalized through JSON (map keys are serialized in
// sorted order) so field ordering in the caller never affects the digest.
func CalculateResourceHash(obj interface{}) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	var objMap map[string]interface{}
	if err := json.Unmarshal(data, &objMap); err != nil {
		return "", err
	}

	for _, field := range excludeFields {
		delete(objMap, field)
	}

	cleanData, err := json.Marshal(objMap)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(cleanData)
	return hex.EncodeToString(sum[:]), nil
}
