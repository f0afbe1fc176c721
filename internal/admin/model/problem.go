package model

// Sample is an example shown in the problem statement.
type Sample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation"`
}

// Problem is the full problem record. Test cases and reference solutions
// are uploaded separately and never embedded here.
type Problem struct {
	ID           ID       `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Score        int      `json:"score"`
	InputFormat  string   `json:"input_format"`
	OutputFormat string   `json:"output_format"`
	Constraints  string   `json:"constraints"`
	IsJunior     bool     `json:"is_junior"`
	EventName    string   `json:"event_name"`
	TimeLimit    int      `json:"time_limit"`
	MemoryLimit  int      `json:"memory_limit"`
	Samples      []Sample `json:"samples"`
}

func (p Problem) Key() ID {
	return p.ID
}
