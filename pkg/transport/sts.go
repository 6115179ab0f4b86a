package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"golang.org/x/sync/singleflight"
)

type awsSTSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CallerIdentity resolves the AWS account id behind the current credentials.
// The lookup runs at most once per process: concurrent callers share one
// in-flight request via singleflight and the answer is cached for the
// lifetime of the value.
type CallerIdentity struct {
	api    awsSTSAPI
	flight singleflight.Group

	mu      sync.RWMutex
	account string
}

// NewCallerIdentity builds an STS-backed identity lookup.
func NewCallerIdentity(ctx context.Context, cfg Config) (*CallerIdentity, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg, sts.ServiceID)
	if err != nil {
		return nil, err
	}
	return newCallerIdentityWithAPI(sts.NewFromConfig(awsCfg)), nil
}

func newCallerIdentityWithAPI(api awsSTSAPI) *CallerIdentity {
	return &CallerIdentity{api: api}
}

// AccountID returns the caller's account id, fetching it on first use.
func (c *CallerIdentity) AccountID(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.account != "" {
		defer c.mu.RUnlock()
		return c.account, nil
	}
	c.mu.RUnlock()

	account, err, _ := c.flight.Do("account", func() (any, error) {
		// Re-check under the lock: another caller sharing this flight may
		// have already stored the answer.
		c.mu.RLock()
		cached := c.account
		c.mu.RUnlock()
		if cached != "" {
			return cached, nil
		}

		resp, err := c.api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return "", fmt.Errorf("sts get caller identity: %w", err)
		}
		id := aws.ToString(resp.Account)

		c.mu.Lock()
		c.account = id
		c.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return account.(string), nil
}
