// backend/internal/platform/di/secret_provider_sm.go
package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// fetchSecret reads one secret value from Secret Manager
// (projects/<project>/secrets/<name>/versions/latest).
//
// Used for the SendGrid API key when it is not injected via env.
func fetchSecret(ctx context.Context, projectID, secretName string) (string, error) {
	prj := strings.TrimSpace(projectID)
	name := strings.TrimSpace(secretName)
	if prj == "" || name == "" {
		return "", errors.New("di: projectID and secretName are required")
	}

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", errors.New("di: secretmanager client init failed: " + err.Error())
	}
	defer sm.Close()

	fullName := "projects/" + prj + "/secrets/" + name + "/versions/latest"
	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: fullName})
	if err != nil {
		return "", errors.New("di: AccessSecretVersion failed (" + fullName + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("di: empty payload (" + fullName + ")")
	}

	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
