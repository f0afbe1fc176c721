package command

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var problemFields = []Field{
	{Name: "title", Prompt: "title", Type: FieldString},
	{Name: "description", Aliases: []string{"desc"}, Prompt: "description (markdown)", Type: FieldString},
	{Name: "description_file", Prompt: "description file", Type: FieldFile},
	{Name: "score", Prompt: "score", Type: FieldInt},
	{Name: "input_format", Prompt: "input format", Type: FieldString},
	{Name: "output_format", Prompt: "output format", Type: FieldString},
	{Name: "constraints", Prompt: "constraints", Type: FieldString},
	{Name: "is_junior", Aliases: []string{"junior"}, Prompt: "junior (true/false)", Type: FieldBool},
	{Name: "event_name", Aliases: []string{"event"}, Prompt: "event name", Type: FieldString},
	{Name: "time_limit", Prompt: "time limit (ms)", Type: FieldInt},
	{Name: "memory_limit", Prompt: "memory limit (MB)", Type: FieldInt},
	{Name: "sample_input", Prompt: "sample input", Type: FieldString},
	{Name: "sample_output", Prompt: "sample output", Type: FieldString},
	{Name: "sample_explanation", Prompt: "sample explanation", Type: FieldString},
	{Name: "samples_json", Prompt: "samples (JSON array)", Type: FieldJSON},
	{Name: "samples_file", Prompt: "samples file", Type: FieldFile},
}

var uploadFields = []Field{
	{Name: "id", Aliases: []string{"problem_id"}, Prompt: "problem_id", Type: FieldID, Required: true},
	{Name: "files", Prompt: "files or directories (comma-separated)", Type: FieldStringList},
	{Name: "archive", Prompt: "archive (.zip or .tar.zst)", Type: FieldFile},
}

func idField(prompt string) Field {
	return Field{Name: "id", Prompt: prompt, Type: FieldID, Required: true}
}

func withRequiredTitle(fields []Field) []Field {
	out := append([]Field(nil), fields...)
	out[0].Required = true
	return out
}

// Registry returns all console commands keyed by Command.Key.
func Registry() map[string]Command {
	commands := []Command{
		{
			Service: "login",
			Summary: "authenticate as administrator",
			Fields: []Field{
				{Name: "username", Aliases: []string{"user"}, Prompt: "username", Type: FieldString, Required: true},
				{Name: "password", Aliases: []string{"pass"}, Prompt: "password", Type: FieldSecret, Required: true},
			},
		},
		{Service: "logout", Summary: "end the session"},
		{
			Service:      "register-admin",
			Summary:      "create another administrator",
			RequiresAuth: true,
			Fields: []Field{
				{Name: "username", Prompt: "username", Type: FieldString, Required: true},
				{Name: "email", Prompt: "email", Type: FieldString},
				{Name: "password", Prompt: "password", Type: FieldSecret, Required: true},
			},
		},
		{Service: "dashboard", Summary: "show platform totals", RequiresAuth: true},

		{Service: "users", Action: "list", Summary: "list users", RequiresAuth: true},
		{Service: "users", Action: "delete", Summary: "delete a user", RequiresAuth: true, Fields: []Field{idField("user_id")}},

		{Service: "teams", Action: "list", Summary: "list teams", RequiresAuth: true},
		{Service: "teams", Action: "show", Summary: "show a team and its members", RequiresAuth: true, Fields: []Field{idField("team_id")}},
		{Service: "teams", Action: "delete", Summary: "delete a team", RequiresAuth: true, Fields: []Field{idField("team_id")}},

		{
			Service: "problems", Action: "list", Summary: "list problems", RequiresAuth: true,
			Fields: []Field{{Name: "category", Prompt: "junior|senior", Type: FieldString}},
		},
		{Service: "problems", Action: "show", Summary: "show problem details", RequiresAuth: true, Fields: []Field{idField("problem_id")}},
		{Service: "problems", Action: "create", Summary: "create a problem", RequiresAuth: true, Fields: withRequiredTitle(problemFields)},
		{
			Service: "problems", Action: "update", Summary: "update a problem", RequiresAuth: true,
			Fields: append([]Field{idField("problem_id")}, problemFields...),
		},
		{Service: "problems", Action: "delete", Summary: "delete a problem", RequiresAuth: true, Fields: []Field{idField("problem_id")}},
		{Service: "problems", Action: "upload-testcases", Summary: "upload test case files", RequiresAuth: true, Fields: uploadFields},
		{Service: "problems", Action: "upload-solution", Summary: "upload reference solution files", RequiresAuth: true, Fields: uploadFields},

		{
			Service: "submissions", Action: "list", Summary: "list submissions", RequiresAuth: true,
			Fields: []Field{
				{Name: "team_id", Prompt: "team_id", Type: FieldID},
				{Name: "problem_id", Prompt: "problem_id", Type: FieldID},
				{Name: "language", Aliases: []string{"lang"}, Prompt: "language", Type: FieldString},
				{Name: "result", Aliases: []string{"verdict"}, Prompt: "result", Type: FieldString},
				{Name: "event_name", Aliases: []string{"event"}, Prompt: "event name", Type: FieldString},
			},
		},
		{Service: "submissions", Action: "code", Summary: "show decoded submission code", RequiresAuth: true, Fields: []Field{idField("submission_id")}},

		{Service: "events", Action: "list", Summary: "list events", RequiresAuth: true},
		{
			Service: "events", Action: "create", Summary: "create an event", RequiresAuth: true,
			Fields: []Field{{Name: "name", Prompt: "event name", Type: FieldString, Required: true}},
		},
		{
			Service: "events", Action: "start", Summary: "start an event", RequiresAuth: true,
			Fields: []Field{
				idField("event_id"),
				{Name: "start_time", Aliases: []string{"start"}, Prompt: "start time (YYYY-MM-DDTHH:MM)", Type: FieldTime, Required: true},
				{Name: "duration", Aliases: []string{"duration_minutes"}, Prompt: "duration (minutes)", Type: FieldInt},
			},
		},
		{Service: "events", Action: "stop", Summary: "stop an event", RequiresAuth: true, Fields: []Field{idField("event_id")}},

		{Service: "show", Action: "session", Summary: "show the current credential"},
		{Service: "show", Action: "config", Summary: "show the active configuration"},
		{
			Service: "set", Action: "base", Summary: "change the backend base URL",
			Fields: []Field{{Name: "url", Prompt: "base url", Type: FieldString, Required: true}},
		},
		{
			Service: "set", Action: "timeout", Summary: "change the request timeout, 0 disables it",
			Fields: []Field{{Name: "value", Prompt: "timeout (e.g. 10s)", Type: FieldString, Required: true}},
		},
		{Service: "help", Summary: "list commands"},
		{Service: "exit", Summary: "leave the console"},
	}

	registry := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		registry[cmd.Key()] = cmd
	}
	return registry
}

// Lookup resolves the command named by the leading tokens and returns the
// remaining tokens.
func Lookup(registry map[string]Command, tokens []string) (Command, []string, bool) {
	if len(tokens) == 0 {
		return Command{}, nil, false
	}
	if len(tokens) >= 2 {
		if cmd, ok := registry[strings.ToLower(tokens[0]+" "+tokens[1])]; ok {
			return cmd, tokens[2:], true
		}
	}
	if cmd, ok := registry[strings.ToLower(tokens[0])]; ok {
		return cmd, tokens[1:], true
	}
	return Command{}, nil, false
}

// Keys returns the registry keys sorted.
func Keys(registry map[string]Command) []string {
	keys := make([]string, 0, len(registry))
	for key := range registry {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Suggest returns the closest command keys to input, best first.
func Suggest(registry map[string]Command, input string, limit int) []string {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return nil
	}
	ranks := fuzzy.RankFindNormalizedFold(input, Keys(registry))
	if len(ranks) == 0 {
		// fall back to matching the service word alone
		service := strings.Fields(input)[0]
		ranks = fuzzy.RankFindNormalizedFold(service, Keys(registry))
	}
	sort.Sort(ranks)
	out := make([]string, 0, limit)
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
