package statuswriter

import (
	"encoding/json"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	statusSuccess = "SUCCESS"

	// account id, region, token, event publish time
	objectKeyFormat = "acmtfstatus/%s/%s/%s/clumio-status-%s.json"

	contentTypeJson = "application/json"
)

type statusObject struct {
	Status string `json:"Status"`
}

// ObjectKey returns the status object key for props. Values are inserted
// verbatim.
func ObjectKey(props ResourceProperties) string {
	return fmt.Sprintf(objectKeyFormat, props.AccountId, props.Region, props.Token, props.EventPublishTime)
}

func successBody() ([]byte, error) {
	return json.Marshal(statusObject{Status: statusSuccess})
}

// readGrant returns an ACL entry giving canonicalUser read access.
func readGrant(canonicalUser string) types.Grant {
	return types.Grant{
		Grantee: &types.Grantee{
			ID:   aws.String(canonicalUser),
			Type: types.TypeCanonicalUser,
		},
		Permission: types.PermissionRead,
	}
}

// withReadGrant returns a copy of grants with a read grant for canonicalUser
// appended. Existing grants are not inspected, so repeated calls add
// duplicate entries.
func withReadGrant(grants []types.Grant, canonicalUser string) []types.Grant {
	result := make([]types.Grant, len(grants), len(grants)+1)
	copy(result, grants)
	return append(result, readGrant(canonicalUser))
}
