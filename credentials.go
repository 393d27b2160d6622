package certify

import (
	"context"
	"fmt"

	"github.com/viant/scy"
	"github.com/viant/scy/cred"
)

// resolveCredentials fills username and password from the scy secret at
// CredentialsURL, when set.
func resolveCredentials(ctx context.Context, secrets *scy.Service, config *HubConfig) error {
	if config.CredentialsURL == "" {
		return nil
	}
	targetType, err := cred.TargetType("basic")
	if err != nil {
		return err
	}
	resource := scy.NewResource(targetType, config.CredentialsURL, config.CredentialsKey)
	secret, err := secrets.Load(ctx, resource)
	if err != nil {
		return fmt.Errorf("failed to load hub credentials from %s: %w", config.CredentialsURL, err)
	}
	basic, ok := secret.Target.(*cred.Basic)
	if !ok {
		return fmt.Errorf("unsupported hub credentials type %T in %s", secret.Target, config.CredentialsURL)
	}
	config.Username = basic.Username
	config.Password = basic.Password
	config.Token = ""
	return nil
}
