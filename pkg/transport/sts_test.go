package transport

import (
	"context"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type fakeSTSAPI struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeSTSAPI) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil
}

func TestCallerIdentityMemoized(t *testing.T) {
	api := &fakeSTSAPI{}
	ident := newCallerIdentityWithAPI(api)

	for i := 0; i < 3; i++ {
		account, err := ident.AccountID(context.Background())
		if err != nil {
			t.Fatalf("AccountID: %v", err)
		}
		if account != "123456789012" {
			t.Fatalf("unexpected account: %s", account)
		}
	}
	if api.calls != 1 {
		t.Fatalf("expected exactly one STS call, got %d", api.calls)
	}
}

func TestCallerIdentityConcurrent(t *testing.T) {
	api := &fakeSTSAPI{}
	ident := newCallerIdentityWithAPI(api)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ident.AccountID(context.Background()); err != nil {
				t.Errorf("AccountID: %v", err)
			}
		}()
	}
	wg.Wait()

	if api.calls != 1 {
		t.Fatalf("concurrent lookups not deduplicated: %d calls", api.calls)
	}
}

func TestMemorySenderConfirmsEverything(t *testing.T) {
	sender := NewMemorySender()
	res, err := sender.Send(context.Background(), nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(res.Failed) != 0 {
		t.Fatalf("memory sender should never fail entries")
	}
}
