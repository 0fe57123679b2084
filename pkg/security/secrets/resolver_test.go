package secrets

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type staticProvider struct {
	name   string
	values map[string]string
	err    error
}

func (p *staticProvider) GetSecret(ctx context.Context, name string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.values[name], nil
}

func (p *staticProvider) Provider() string { return p.name }

func (p *staticProvider) Supports(name string) bool {
	_, ok := p.values[name]
	return ok
}

func TestResolver_Resolve(t *testing.T) {
	first := &staticProvider{name: "first", values: map[string]string{"k1": "AIzaOne"}}
	second := &staticProvider{name: "second", values: map[string]string{"k1": "shadowed", "k2": "AIzaTwo"}}
	r := NewResolver(nil, first, second)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"literal", "AIzaLiteral", "AIzaLiteral", false},
		{"whole reference", "${secret:k1}", "AIzaOne", false},
		{"fallthrough to later provider", "${secret:k2}", "AIzaTwo", false},
		{"embedded", "prefix-${secret:k2}", "prefix-AIzaTwo", false},
		{"unknown", "${secret:nope}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_ProviderErrorFallsThrough(t *testing.T) {
	broken := &staticProvider{name: "broken", values: map[string]string{"k": ""}, err: errors.New("backend down")}
	good := &staticProvider{name: "good", values: map[string]string{"k": "AIzaGood"}}

	got, err := NewResolver(nil, broken, good).GetSecret(context.Background(), "k")
	if err != nil || got != "AIzaGood" {
		t.Fatalf("GetSecret() = %q, %v; want value from second provider", got, err)
	}

	_, err = NewResolver(nil, broken).GetSecret(context.Background(), "k")
	if err == nil || !strings.Contains(err.Error(), "backend down") {
		t.Errorf("expected provider error to surface, got %v", err)
	}
}

func TestResolver_ResolveAll(t *testing.T) {
	t.Setenv("SWITCHBOARD_SECRET_POOL_A", "AIzaA")
	r := NewResolver(nil, NewEnvProvider(DefaultEnvPrefix))

	in := []string{"AIzaPlain", "${secret:pool-a}"}
	out, err := r.ResolveAll(context.Background(), in)
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if out[0] != "AIzaPlain" || out[1] != "AIzaA" {
		t.Errorf("ResolveAll() = %v", out)
	}
	if in[1] != "${secret:pool-a}" {
		t.Error("input slice must not be modified")
	}

	if _, err := r.ResolveAll(context.Background(), []string{"${secret:missing-one}"}); err == nil {
		t.Error("expected error for unresolved reference")
	}
}

func TestRedactSecretName(t *testing.T) {
	if got := redactSecretName("gemini-key"); got != "ge...ey" {
		t.Errorf("redactSecretName() = %q", got)
	}
	if got := redactSecretName("abc"); got != "***" {
		t.Errorf("redactSecretName() = %q", got)
	}
}
