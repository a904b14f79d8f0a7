package commands

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate is returned for a template id that is not in the catalog.
var ErrUnknownTemplate = errors.New("unknown template")

// Template is a ready-made group of commands for a common project type.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Commands    []Record `json:"commands"`
}

func sh(name, command, group string) Record {
	return Record{Name: name, Command: command, Kind: PlainShell, Group: group}
}

var templates = []Template{
	{
		ID: "react", Name: "React", Description: "Common React project commands", Icon: "⚛",
		Commands: []Record{
			sh("Dev Server", "npm run dev", "React"),
			sh("Build", "npm run build", "React"),
			sh("Test", "npm test", "React"),
			sh("Lint", "npm run lint", "React"),
			sh("Format", "npm run format", "React"),
		},
	},
	{
		ID: "node-backend", Name: "Node.js Backend", Description: "Node.js server development commands", Icon: "⬢",
		Commands: []Record{
			sh("Start", "npm start", "Backend"),
			sh("Dev", "npm run dev", "Backend"),
			sh("Build", "npm run build", "Backend"),
			sh("Test", "npm test", "Backend"),
			sh("DB Migrate", "npm run db:migrate", "Backend"),
		},
	},
	{
		ID: "docker", Name: "Docker", Description: "Docker container management", Icon: "\U0001F433",
		Commands: []Record{
			sh("Docker Build", "docker build -t app .", "Docker"),
			sh("Docker Up", "docker compose up -d", "Docker"),
			sh("Docker Down", "docker compose down", "Docker"),
			sh("Docker Logs", "docker compose logs -f", "Docker"),
		},
	},
	{
		ID: "testing", Name: "Testing", Description: "Test runner commands", Icon: "✓",
		Commands: []Record{
			sh("Test", "npm test", "Testing"),
			sh("Test Watch", "npm run test:watch", "Testing"),
			sh("Test Coverage", "npm run test:coverage", "Testing"),
		},
	},
	{
		ID: "linting", Name: "Linting & Formatting", Description: "Code quality commands", Icon: "✨",
		Commands: []Record{
			sh("Lint", "npm run lint", "Linting"),
			sh("Lint Fix", "npm run lint:fix", "Linting"),
			sh("Format", "npm run format", "Linting"),
			sh("Typecheck", "npm run typecheck", "Linting"),
		},
	},
	{
		ID: "git-hooks", Name: "Git Hooks", Description: "Git hook setup commands", Icon: "\U0001FA9D",
		Commands: []Record{
			sh("Prepare", "npm run prepare", "Git Hooks"),
			sh("Pre-commit", "npm run pre-commit", "Git Hooks"),
			sh("Pre-push", "npm run pre-push", "Git Hooks"),
		},
	},
	{
		ID: "git", Name: "Git", Description: "Common git workflow commands", Icon: "\U0001F500",
		Commands: []Record{
			sh("Status", "git status", "Git"),
			sh("Pull", "git pull", "Git"),
			sh("Push", "git push", "Git"),
			sh("Push (set upstream)", "git push -u origin HEAD", "Git"),
			sh("Commit all", "git add -A && git commit", "Git"),
			sh("Log (oneline)", "git log --oneline -20", "Git"),
			sh("Stash", "git stash", "Git"),
			sh("Stash Pop", "git stash pop", "Git"),
		},
	},
	{
		ID: "expo", Name: "Expo", Description: "Expo / React Native commands", Icon: "\U0001F4F1",
		Commands: []Record{
			sh("Start", "npx expo start", "Expo"),
			sh("Start (clear cache)", "npx expo start -c", "Expo"),
			sh("iOS", "npx expo run:ios", "Expo"),
			sh("Android", "npx expo run:android", "Expo"),
			sh("Export", "npx expo export", "Expo"),
			sh("Install", "npx expo install", "Expo"),
			sh("Prebuild", "npx expo prebuild", "Expo"),
			sh("EAS Build (dev)", "eas build --profile development", "Expo"),
			sh("EAS Build (preview)", "eas build --profile preview", "Expo"),
			sh("EAS Submit", "eas submit", "Expo"),
		},
	},
	{
		ID: "nextjs", Name: "Next.js", Description: "Next.js development commands", Icon: "▲",
		Commands: []Record{
			sh("Dev", "npm run dev", "Next.js"),
			sh("Build", "npm run build", "Next.js"),
			sh("Start", "npm start", "Next.js"),
			sh("Lint", "npm run lint", "Next.js"),
		},
	},
	{
		ID: "python", Name: "Python", Description: "Python project commands", Icon: "\U0001F40D",
		Commands: []Record{
			sh("Run", "python main.py", "Python"),
			sh("Install deps", "pip install -r requirements.txt", "Python"),
			sh("Pytest", "pytest", "Python"),
			sh("Pytest (verbose)", "pytest -v", "Python"),
			sh("Freeze deps", "pip freeze > requirements.txt", "Python"),
		},
	},
	{
		ID: "turborepo", Name: "Turborepo", Description: "Monorepo with Turborepo", Icon: "\U0001F680",
		Commands: []Record{
			sh("Build", "npx turbo build", "Turborepo"),
			sh("Dev", "npx turbo dev", "Turborepo"),
			sh("Lint", "npx turbo lint", "Turborepo"),
			sh("Test", "npx turbo test", "Turborepo"),
		},
	},
	{
		ID: "deploy", Name: "Deploy", Description: "Common deployment commands", Icon: "☁",
		Commands: []Record{
			sh("Vercel Deploy", "vercel", "Deploy"),
			sh("Vercel (prod)", "vercel --prod", "Deploy"),
			sh("Netlify Deploy", "netlify deploy", "Deploy"),
			sh("Netlify (prod)", "netlify deploy --prod", "Deploy"),
		},
	},
}

// Templates returns a copy of the built-in template catalog.
func Templates() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		t.Commands = append([]Record(nil), t.Commands...)
		out[i] = t
	}
	return out
}

// TemplateByID looks up a template in the catalog.
func TemplateByID(id string) (Template, error) {
	for _, t := range Templates() {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
}

// InstallTemplate adds the template's commands to the command-list file.
// A non-empty group overrides the template's own group name. Commands that
// already exist are skipped; the number added is returned.
func InstallTemplate(root, id, group, configFileName string) (int, error) {
	t, err := TemplateByID(id)
	if err != nil {
		return 0, err
	}
	records := t.Commands
	if group != "" {
		for i := range records {
			records[i].Group = group
		}
	}
	return AddCommands(root, records, configFileName)
}
