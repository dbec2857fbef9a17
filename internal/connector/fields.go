package connector

import (
	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// ValidateInput checks the supplied credentials and configuration against
// a connector's declared config fields. Only the metadata is consulted;
// the values themselves are opaque to this function.
func ValidateInput(fields api.ConfigFields, credentials, config map[string]string) error {
	if missing := missingRequired(fields.Credentials, credentials); len(missing) > 0 {
		return apperrors.Validation("connector.missingCredentials").WithDetails(map[string]any{
			"fields": missing,
		})
	}
	if missing := missingRequired(fields.Configuration, config); len(missing) > 0 {
		return apperrors.Validation("connector.missingConfiguration").WithDetails(map[string]any{
			"fields": missing,
		})
	}
	return nil
}

func missingRequired(groups []api.FieldGroup, input map[string]string) []string {
	var missing []string
	for _, group := range groups {
		for _, field := range group.Fields {
			if !field.Required {
				continue
			}
			if input[field.ID] == "" {
				missing = append(missing, field.ID)
			}
		}
	}
	return missing
}
