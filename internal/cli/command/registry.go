package command

// Registry returns all CLI commands keyed by "service action".
func Registry() map[string]Command {
	commands := []Command{
		{
			Service: "user",
			Action:  "signin",
			Summary: "sign in with email and password",
			Fields: []Field{
				{Name: "email", Prompt: "email", Type: FieldString, Required: true},
				{Name: "password", Prompt: "password", Type: FieldString, Required: true},
			},
		},
		{
			Service: "user",
			Action:  "signup",
			Summary: "register a new account",
			Fields: []Field{
				{Name: "username", Prompt: "username", Type: FieldString, Required: true},
				{Name: "email", Prompt: "email", Type: FieldString, Required: true},
				{Name: "password", Prompt: "password", Type: FieldString, Required: true},
			},
		},
		{
			Service: "user",
			Action:  "whoami",
			Summary: "verify the stored token and show the account",
		},
		{
			Service: "user",
			Action:  "signout",
			Summary: "drop the stored token",
		},
		{
			Service: "problem",
			Action:  "list",
			Summary: "list the problem catalog",
		},
		{
			Service: "problem",
			Action:  "get",
			Summary: "show one problem",
			Fields: []Field{
				{Name: "id", Prompt: "problem_id", Type: FieldInt64, Required: true},
			},
		},
		{
			Service: "language",
			Action:  "list",
			Summary: "list supported languages",
		},
		{
			Service: "submission",
			Action:  "create",
			Summary: "submit source code for grading",
			Fields: []Field{
				{Name: "problem_id", Prompt: "problem_id", Type: FieldInt64, Required: true},
				{Name: "language_id", Prompt: "language_id", Type: FieldInt64, Required: true},
				{Name: "source_code", Prompt: "source_code", Type: FieldString, Required: true},
				{Name: "source_file", Prompt: "source_file", Type: FieldFile, Required: false},
			},
		},
		{
			Service: "submission",
			Action:  "get",
			Summary: "show one submission result",
			Fields: []Field{
				{Name: "id", Aliases: []string{"submission_id"}, Prompt: "submission_id", Type: FieldString, Required: true},
			},
		},
		{
			Service: "submission",
			Action:  "watch",
			Summary: "poll a submission until it settles",
			Fields: []Field{
				{Name: "id", Aliases: []string{"submission_id"}, Prompt: "submission_id", Type: FieldString, Required: true},
			},
		},
		{
			Service: "submission",
			Action:  "list",
			Summary: "list submissions with optional filters",
			Fields: []Field{
				{Name: "user_id", Prompt: "user_id", Type: FieldString, Required: false},
				{Name: "problem_id", Prompt: "problem_id", Type: FieldInt64, Required: false},
				{Name: "status", Prompt: "status", Type: FieldString, Required: false},
				{Name: "limit", Prompt: "limit", Type: FieldInt64, Required: false},
				{Name: "skip", Prompt: "skip", Type: FieldInt64, Required: false},
			},
		},
		{
			Service: "profile",
			Action:  "stats",
			Summary: "show per-language statistics and level",
			Fields: []Field{
				{Name: "user_id", Prompt: "user_id", Type: FieldString, Required: false},
			},
		},
		{
			Service: "profile",
			Action:  "solved",
			Summary: "list unique solved problems",
			Fields: []Field{
				{Name: "user_id", Prompt: "user_id", Type: FieldString, Required: false},
			},
		},
		{
			Service: "pqrs",
			Action:  "categories",
			Summary: "list ticket categories",
		},
		{
			Service: "pqrs",
			Action:  "states",
			Summary: "list ticket workflow states",
		},
		{
			Service:      "pqrs",
			Action:       "create",
			Summary:      "file a new ticket",
			RequiresAuth: true,
			Fields: []Field{
				{Name: "type", Aliases: []string{"tipo"}, Prompt: "type (peticion|queja|reclamo|sugerencia)", Type: FieldString, Required: true},
				{Name: "category_id", Aliases: []string{"categoria_id"}, Prompt: "category_id", Type: FieldInt64, Required: true},
				{Name: "description", Aliases: []string{"descripcion"}, Prompt: "description", Type: FieldString, Required: true},
			},
		},
		{
			Service:      "pqrs",
			Action:       "list",
			Summary:      "list visible tickets",
			RequiresAuth: true,
		},
		{
			Service:      "pqrs",
			Action:       "get",
			Summary:      "show one ticket",
			RequiresAuth: true,
			Fields: []Field{
				{Name: "id", Prompt: "pqrs_id", Type: FieldInt64, Required: true},
			},
		},
		{
			Service:      "pqrs",
			Action:       "status",
			Summary:      "move a ticket to a new state",
			RequiresAuth: true,
			RequiresRole: "moderator",
			Fields: []Field{
				{Name: "id", Prompt: "pqrs_id", Type: FieldInt64, Required: true},
				{Name: "state_id", Aliases: []string{"estado_id"}, Prompt: "state_id", Type: FieldInt64, Required: true},
				{Name: "comment", Aliases: []string{"comentario"}, Prompt: "comment", Type: FieldString, Required: false},
			},
		},
		{
			Service:      "pqrs",
			Action:       "history",
			Summary:      "show a ticket's status history",
			RequiresAuth: true,
			Fields: []Field{
				{Name: "id", Prompt: "pqrs_id", Type: FieldInt64, Required: true},
			},
		},
		{
			Service:      "pqrs",
			Action:       "stats",
			Summary:      "show aggregate ticket counts",
			RequiresAuth: true,
			RequiresRole: "moderator",
		},
		{
			Service:      "admin",
			Action:       "problem-create",
			Summary:      "create a problem",
			RequiresAuth: true,
			RequiresRole: "admin",
			Fields: []Field{
				{Name: "title", Prompt: "title", Type: FieldString, Required: true},
				{Name: "description", Prompt: "description", Type: FieldString, Required: true},
				{Name: "difficulty", Prompt: "difficulty (easy|medium|hard)", Type: FieldString, Required: false},
			},
		},
		{
			Service:      "admin",
			Action:       "problem-update",
			Summary:      "update a problem",
			RequiresAuth: true,
			RequiresRole: "admin",
			Fields: []Field{
				{Name: "id", Prompt: "problem_id", Type: FieldInt64, Required: true},
				{Name: "title", Prompt: "title", Type: FieldString, Required: false},
				{Name: "description", Prompt: "description", Type: FieldString, Required: false},
				{Name: "difficulty", Prompt: "difficulty", Type: FieldString, Required: false},
			},
		},
		{
			Service:      "admin",
			Action:       "problem-delete",
			Summary:      "delete a problem",
			RequiresAuth: true,
			RequiresRole: "admin",
			Fields: []Field{
				{Name: "id", Prompt: "problem_id", Type: FieldInt64, Required: true},
			},
		},
		{
			Service:      "admin",
			Action:       "user-list",
			Summary:      "list accounts",
			RequiresAuth: true,
			RequiresRole: "admin",
		},
		{
			Service:      "admin",
			Action:       "user-get",
			Summary:      "show one account",
			RequiresAuth: true,
			RequiresRole: "admin",
			Fields: []Field{
				{Name: "id", Prompt: "user_id", Type: FieldString, Required: true},
			},
		},
		{
			Service:      "admin",
			Action:       "user-update",
			Summary:      "update an account's details",
			RequiresAuth: true,
			RequiresRole: "admin",
			Fields: []Field{
				{Name: "id", Prompt: "user_id", Type: FieldString, Required: true},
				{Name: "username", Prompt: "username", Type: FieldString, Required: false},
				{Name: "email", Prompt: "email", Type: FieldString, Required: false},
			},
		},
		{
			Service:      "admin",
			Action:       "user-role",
			Summary:      "replace an account's roles",
			RequiresAuth: true,
			RequiresRole: "admin",
			Fields: []Field{
				{Name: "id", Prompt: "user_id", Type: FieldString, Required: true},
				{Name: "roles", Prompt: "roles (comma-separated)", Type: FieldString, Required: true},
			},
		},
		{
			Service:      "admin",
			Action:       "user-delete",
			Summary:      "delete an account",
			RequiresAuth: true,
			RequiresRole: "admin",
			Fields: []Field{
				{Name: "id", Prompt: "user_id", Type: FieldString, Required: true},
			},
		},
		{
			Service:      "admin",
			Action:       "submission-delete",
			Summary:      "delete a submission record",
			RequiresAuth: true,
			RequiresRole: "admin",
			Fields: []Field{
				{Name: "id", Prompt: "submission_id", Type: FieldString, Required: true},
			},
		},
	}

	result := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		result[cmd.Key()] = cmd
	}
	return result
}
