package blueprint

// SequencingConfig orders items the player must arrange.
type SequencingConfig struct {
	Prompt string         `json:"prompt,omitempty"`
	Items  []SequenceItem `json:"items"`
}

// SequenceItem is one entry of the correct sequence, in correct order.
type SequenceItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SortingConfig declares categories and the items that belong to them.
type SortingConfig struct {
	Prompt     string     `json:"prompt,omitempty"`
	Categories []Category `json:"categories"`
	Items      []SortItem `json:"items"`
}

// Category is one sorting bucket.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SortItem is a sortable item with its correct category.
type SortItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	CategoryID string `json:"categoryId"`
}

// MemoryConfig declares the card set for memory match. Cards sharing a
// PairID match each other.
type MemoryConfig struct {
	Cards []MemoryCard `json:"cards"`
}

// MemoryCard is one face-down card.
type MemoryCard struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	PairID string `json:"pairId"`
}

// BranchingConfig declares the decision graph of a branching scenario.
type BranchingConfig struct {
	StartNodeID string       `json:"startNodeId"`
	Nodes       []BranchNode `json:"nodes"`
}

// BranchNode is one decision point. A node with no choices is terminal.
type BranchNode struct {
	ID      string         `json:"id"`
	Prompt  string         `json:"prompt"`
	Choices []BranchChoice `json:"choices,omitempty"`
}

// BranchChoice is one selectable option at a node.
type BranchChoice struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	NextNodeID string `json:"nextNodeId,omitempty"`
	Correct    bool   `json:"correct,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
}

// CompareSide identifies where a compare/contrast item belongs.
type CompareSide string

const (
	CompareLeft  CompareSide = "left"
	CompareRight CompareSide = "right"
	CompareBoth  CompareSide = "both"
)

// CompareConfig declares the two subjects and the items to classify.
type CompareConfig struct {
	Prompt     string        `json:"prompt,omitempty"`
	LeftTitle  string        `json:"leftTitle"`
	RightTitle string        `json:"rightTitle"`
	Items      []CompareItem `json:"items"`
}

// CompareItem is one statement with the side it belongs to.
type CompareItem struct {
	ID      string      `json:"id"`
	Text    string      `json:"text"`
	Belongs CompareSide `json:"belongs"`
}

// TraceConfig declares the ordered zone waypoints of a path.
type TraceConfig struct {
	Prompt string `json:"prompt,omitempty"`
	// WaypointZoneIDs are visited in order; a trace point inside the next
	// waypoint advances the path.
	WaypointZoneIDs []string `json:"waypointZoneIds"`
}

// IdentifyConfig optionally narrows click-to-identify to a prompt list.
// Without it every zone is a target, prompted in zone order.
type IdentifyConfig struct {
	Prompts []IdentifyPrompt `json:"prompts,omitempty"`
}

// IdentifyPrompt asks the player to click one zone.
type IdentifyPrompt struct {
	ZoneID string `json:"zoneId"`
	Text   string `json:"text,omitempty"`
}

func (c *SequencingConfig) clone() *SequencingConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = append([]SequenceItem(nil), c.Items...)
	return &out
}

func (c *SortingConfig) clone() *SortingConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Categories = append([]Category(nil), c.Categories...)
	out.Items = append([]SortItem(nil), c.Items...)
	return &out
}

func (c *MemoryConfig) clone() *MemoryConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Cards = append([]MemoryCard(nil), c.Cards...)
	return &out
}

func (c *BranchingConfig) clone() *BranchingConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Nodes = make([]BranchNode, len(c.Nodes))
	for i, node := range c.Nodes {
		out.Nodes[i] = node
		out.Nodes[i].Choices = append([]BranchChoice(nil), node.Choices...)
	}
	return &out
}

func (c *CompareConfig) clone() *CompareConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = append([]CompareItem(nil), c.Items...)
	return &out
}

func (c *TraceConfig) clone() *TraceConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.WaypointZoneIDs = append([]string(nil), c.WaypointZoneIDs...)
	return &out
}

func (c *IdentifyConfig) clone() *IdentifyConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Prompts = append([]IdentifyPrompt(nil), c.Prompts...)
	return &out
}

// NodeByID returns the branch node with the given id, or nil.
func (c *BranchingConfig) NodeByID(id string) *BranchNode {
	if c == nil {
		return nil
	}
	for i := range c.Nodes {
		if c.Nodes[i].ID == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

// ChoiceByID returns the choice with the given id at this node, or nil.
func (n *BranchNode) ChoiceByID(id string) *BranchChoice {
	if n == nil {
		return nil
	}
	for i := range n.Choices {
		if n.Choices[i].ID == id {
			return &n.Choices[i]
		}
	}
	return nil
}

// Terminal reports whether the node ends the scenario.
func (n *BranchNode) Terminal() bool {
	return n != nil && len(n.Choices) == 0
}
