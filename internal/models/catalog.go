package models

// Vendor identifies which external service answers for a model.
// The set is closed; dispatch happens over typed values, not raw strings.
type Vendor string

const (
	VendorOpenRouter Vendor = "openrouter"
	VendorGroq       Vendor = "groq"
	VendorCohere     Vendor = "cohere"
)

// Descriptor is one selectable model option. The catalog is built once at
// process start and read-only afterwards, so it needs no locking.
type Descriptor struct {
	Key                 string `json:"key"`
	ProviderID          string `json:"provider_id"`
	DisplayName         string `json:"name"`
	Vendor              Vendor `json:"provider"`
	SupportsDeepThought bool   `json:"supports_deep_thinking"`
}

const DefaultKey = "deepseek/deepseek-chat-v3-0324:free"

// catalog order matters: it is the fallback order after the user's pick.
var catalog = []Descriptor{
	{Key: "deepseek/deepseek-chat-v3-0324:free", DisplayName: "GPT-4o", Vendor: VendorOpenRouter, SupportsDeepThought: true},
	{Key: "mistralai/mistral-7b-instruct:free", DisplayName: "Milky Basic", Vendor: VendorOpenRouter, SupportsDeepThought: true},
	{Key: "google/gemma-3n-e4b-it:free", DisplayName: "Milky-S1", Vendor: VendorOpenRouter, SupportsDeepThought: true},
	{Key: "agentica-org/deepcoder-14b-preview:free", DisplayName: "MilkyCoder Pro", Vendor: VendorOpenRouter, SupportsDeepThought: true},
	{Key: "deepseek/deepseek-v3-base:free", DisplayName: "Milky 3.7 sonnet", Vendor: VendorOpenRouter, SupportsDeepThought: true},
	{Key: "groq/llama3-70b", ProviderID: "llama3-70b-8192", Vendor: VendorGroq, DisplayName: "Milky Edge", SupportsDeepThought: true},
	{Key: "cohere/command-r-plus", ProviderID: "command-r-plus", Vendor: VendorCohere, DisplayName: "Milky S2", SupportsDeepThought: true},
	{Key: "cohere/command-r", ProviderID: "command-r", Vendor: VendorCohere, DisplayName: "Milky 2o", SupportsDeepThought: true},
	{Key: "anthropic/claude-3-5-sonnet", DisplayName: "Claude 3.5 Sonnet", Vendor: VendorOpenRouter},
	{Key: "meta-llama/llama-3.1-8b-instruct", DisplayName: "Llama 3.1 8B", Vendor: VendorOpenRouter},
	{Key: "meta-llama/llama-3.1-70b-instruct", DisplayName: "Llama 3.1 70B", Vendor: VendorOpenRouter},
	{Key: "openai/gpt-4o-mini", DisplayName: "GPT-4o Mini", Vendor: VendorOpenRouter},
	{Key: "openai/gpt-4o", DisplayName: "GPT-4o", Vendor: VendorOpenRouter},
	{Key: "anthropic/claude-3-5-haiku", DisplayName: "Claude 3.5 Haiku", Vendor: VendorOpenRouter},
	{Key: "anthropic/claude-3-opus", DisplayName: "Claude 3 Opus", Vendor: VendorOpenRouter},
	{Key: "google/gemma-2-27b-it", DisplayName: "Gemma 2 27B", Vendor: VendorOpenRouter},
	{Key: "meta-llama/llama-3.1-405b-instruct", DisplayName: "Llama 3.1 405B", Vendor: VendorOpenRouter},
	{Key: "openai/gpt-4-turbo", DisplayName: "GPT-4 Turbo", Vendor: VendorOpenRouter},
	{Key: "anthropic/claude-3-sonnet", DisplayName: "Claude 3 Sonnet", Vendor: VendorOpenRouter},
	{Key: "meta-llama/llama-3.1-405b-instruct:free", DisplayName: "Llama 3.1 405B (Free)", Vendor: VendorOpenRouter},
	{Key: "openai/gpt-4o-mini:free", DisplayName: "GPT-4o Mini (Free)", Vendor: VendorOpenRouter},
	{Key: "anthropic/claude-3-5-sonnet:free", DisplayName: "Claude 3.5 Sonnet (Free)", Vendor: VendorOpenRouter},
	{Key: "meta-llama/llama-3.1-8b-instruct:free", DisplayName: "Llama 3.1 8B (Free)", Vendor: VendorOpenRouter},
	{Key: "openai/gpt-4o:free", DisplayName: "GPT-4o (Free)", Vendor: VendorOpenRouter},
	{Key: "anthropic/claude-3-5-haiku:free", DisplayName: "Claude 3.5 Haiku (Free)", Vendor: VendorOpenRouter},
	{Key: "anthropic/claude-3-opus:free", DisplayName: "Claude 3 Opus (Free)", Vendor: VendorOpenRouter},
	{Key: "google/gemma-2-27b-it:free", DisplayName: "Gemma 2 27B (Free)", Vendor: VendorOpenRouter},
	{Key: "openai/gpt-4-turbo:free", DisplayName: "GPT-4 Turbo (Free)", Vendor: VendorOpenRouter},
	{Key: "anthropic/claude-3-sonnet:free", DisplayName: "Claude 3 Sonnet (Free)", Vendor: VendorOpenRouter},
}

// Catalog is the immutable model catalog, keyed lookup plus declaration order.
type Catalog struct {
	byKey map[string]Descriptor
	order []Descriptor
}

// NewCatalog builds the process-wide catalog. Descriptors without an
// explicit ProviderID use their key as the upstream model id.
func NewCatalog() *Catalog {
	c := &Catalog{byKey: make(map[string]Descriptor, len(catalog))}
	for _, d := range catalog {
		if d.ProviderID == "" {
			d.ProviderID = d.Key
		}
		c.byKey[d.Key] = d
		c.order = append(c.order, d)
	}
	return c
}

// Resolve returns the descriptor for key, falling back to the default
// model when the key is unknown or empty.
func (c *Catalog) Resolve(key string) Descriptor {
	if d, ok := c.byKey[key]; ok {
		return d
	}
	return c.byKey[DefaultKey]
}

// All returns descriptors in declaration order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.order))
	copy(out, c.order)
	return out
}

// Candidates builds the fallback sequence for a request: the selected
// model first, then every other model in declaration order.
func (c *Catalog) Candidates(selected string) []Descriptor {
	first := c.Resolve(selected)
	out := make([]Descriptor, 0, len(c.order))
	out = append(out, first)
	for _, d := range c.order {
		if d.Key != first.Key {
			out = append(out, d)
		}
	}
	return out
}
