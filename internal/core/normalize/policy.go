package normalize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/minutas/constants"
)

// PolicyRule forces a payment form for deeds whose service name contains Service.
type PolicyRule struct {
	Service     string `yaml:"service"`
	PaymentForm string `yaml:"payment_form"`
}

// PaymentPolicy is the per-document-type default payment form table.
type PaymentPolicy struct {
	Rules []PolicyRule `yaml:"rules"`
}

// DefaultPaymentPolicy covers sales, donations and incorporations, all paid in cash.
func DefaultPaymentPolicy() *PaymentPolicy {
	return &PaymentPolicy{Rules: []PolicyRule{
		{Service: "COMPRA VENTA", PaymentForm: constants.FormCash},
		{Service: "DONACION", PaymentForm: constants.FormCash},
		{Service: "CONSTITUCION", PaymentForm: constants.FormCash},
	}}
}

// LoadPaymentPolicy reads a YAML policy file. An empty path or a missing file yields the defaults.
func LoadPaymentPolicy(path string) (*PaymentPolicy, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPaymentPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPaymentPolicy(), nil
		}
		return nil, fmt.Errorf("failed to read payment policy: %w", err)
	}
	return ParsePaymentPolicy(data)
}

// ParsePaymentPolicy decodes a policy document. Rules with a blank service or form are rejected.
func ParsePaymentPolicy(data []byte) (*PaymentPolicy, error) {
	var p PaymentPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse payment policy: %w", err)
	}
	for i, r := range p.Rules {
		if EnumKey(r.Service) == "" || strings.TrimSpace(r.PaymentForm) == "" {
			return nil, fmt.Errorf("payment policy rule %d: service and payment_form are required", i)
		}
	}
	return &p, nil
}

// DefaultForm returns the forced payment form for service, or "" when no rule applies.
func (p *PaymentPolicy) DefaultForm(service string) string {
	if p == nil {
		return ""
	}
	s := EnumKey(service)
	if s == "" {
		return ""
	}
	for _, r := range p.Rules {
		if strings.Contains(s, EnumKey(r.Service)) {
			return r.PaymentForm
		}
	}
	return ""
}
