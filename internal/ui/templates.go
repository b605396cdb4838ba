package ui

import (
	"fmt"
	"html/template"
	"io"
)

// renderTemplate renders a page inside the layout.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	tmpl, err := template.New("layout").Parse(templates["layout"])
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	if _, err := tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}
	return tmpl.Execute(w, data)
}

var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-amber-50 min-h-screen">
    {{if .LoggedIn}}
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-3xl mx-auto px-4 flex justify-between h-14 items-center">
            <a href="/today" class="text-lg font-bold text-amber-700">moodiary</a>
            <div class="flex space-x-6 text-sm text-gray-600">
                <a href="/today" class="hover:text-gray-900">Today</a>
                <a href="/diary" class="hover:text-gray-900">Diary</a>
                <a href="/history" class="hover:text-gray-900">History</a>
                <a href="/settings" class="hover:text-gray-900">Settings</a>
                <a href="/logout" class="hover:text-gray-900">Logout</a>
            </div>
        </div>
    </nav>
    {{end}}
    <main class="max-w-3xl mx-auto px-4 py-8">
        {{if .Notice}}<div class="mb-4 rounded bg-green-100 px-4 py-2 text-green-800">{{.Notice}}</div>{{end}}
        {{if .Error}}<div class="mb-4 rounded bg-red-100 px-4 py-2 text-red-800">{{.Error}}</div>{{end}}
        {{template "content" .}}
    </main>
</body>
</html>`,

	"login": `{{define "content"}}
<h1 class="text-2xl font-semibold mb-6">Welcome back</h1>
<form method="post" action="/login" class="space-y-4">
    <input name="username" value="{{.Username}}" placeholder="Username" class="w-full rounded border px-3 py-2">
    <input name="password" type="password" placeholder="Password" class="w-full rounded border px-3 py-2">
    <button type="submit" class="rounded bg-amber-600 px-4 py-2 text-white">Log in</button>
</form>
<p class="mt-4 text-sm">No account? <a href="/register" class="text-amber-700">Register</a></p>
{{end}}`,

	"register": `{{define "content"}}
<h1 class="text-2xl font-semibold mb-6">Create an account</h1>
<form method="post" action="/register" class="space-y-4">
    <input name="username" value="{{.Username}}" placeholder="Username (3+ characters)" class="w-full rounded border px-3 py-2">
    <input name="password" type="password" placeholder="Password (8+ characters, a capital and a digit)" class="w-full rounded border px-3 py-2">
    <input name="city" value="{{.City}}" placeholder="City" class="w-full rounded border px-3 py-2">
    <button type="submit" class="rounded bg-amber-600 px-4 py-2 text-white">Register</button>
</form>
<p class="mt-4 text-sm">Already registered? <a href="/login" class="text-amber-700">Log in</a></p>
{{end}}`,

	"today": `{{define "content"}}{{with .Today}}
<h1 class="text-2xl font-semibold">Good day{{if .Greeting}}, {{.Greeting}}{{end}}</h1>
<p class="text-gray-500 mb-6">{{.Date}}{{if .City}} · {{.City}}{{end}}</p>
<section class="rounded bg-white p-4 shadow mb-4">
    <h2 class="font-semibold mb-2">{{.WeatherEmoji}} Weather</h2>
    {{if .Weather}}<p><span class="text-xl">{{.Temperature}}</span> {{.Condition}}</p>{{else}}<p class="text-gray-500">No weather yet.</p>{{end}}
</section>
<section class="rounded bg-white p-4 shadow mb-4">
    <h2 class="font-semibold mb-2">Morning plan</h2>
    {{if .PlanText}}<p class="whitespace-pre-line">{{.PlanText}}</p>{{else}}<p class="text-gray-500">Your plan is not ready yet.</p>{{end}}
</section>
{{if .EveningPrompt}}
<section class="rounded bg-white p-4 shadow mb-4">
    <h2 class="font-semibold mb-2">Tonight</h2>
    <p>{{.EveningPrompt}}</p>
</section>
{{end}}
{{if .Mood}}
<section class="rounded bg-white p-4 shadow">
    <h2 class="font-semibold mb-2">{{.MoodEmoji}} Your day</h2>
    {{if .Summary}}<p>{{.Summary}}</p>{{end}}
</section>
{{else}}
<a href="/diary" class="inline-block rounded bg-amber-600 px-4 py-2 text-white">Write today's entry</a>
{{end}}
{{end}}{{end}}`,

	"diary": `{{define "content"}}
<h1 class="text-2xl font-semibold mb-6">How was your day?</h1>
{{if .Success}}<div class="mb-4 rounded bg-green-100 px-4 py-2 text-green-800">{{.Success}}</div>{{end}}
<form method="post" action="/diary" class="space-y-4">
    <div class="flex space-x-4 text-3xl">
        {{$selected := 0}}{{with .Entry}}{{$selected = .Mood}}{{end}}
        {{range .Moods}}
        <label><input type="radio" name="mood" value="{{.Value}}" class="sr-only" {{if eq .Value $selected}}checked{{end}}>{{.Icon}}</label>
        {{end}}
    </div>
    <textarea name="good" placeholder="What went well?" class="w-full rounded border px-3 py-2">{{with .Entry}}{{.Good}}{{end}}</textarea>
    <textarea name="improve" placeholder="What could be better?" class="w-full rounded border px-3 py-2">{{with .Entry}}{{.Improve}}{{end}}</textarea>
    <button type="submit" class="rounded bg-amber-600 px-4 py-2 text-white">Save</button>
</form>
{{end}}`,

	"history": `{{define "content"}}
<h1 class="text-2xl font-semibold mb-6">History</h1>
<ul class="divide-y rounded bg-white shadow">
    {{range .Entries}}
    <li class="px-4 py-3">
        <a href="/history/{{.ID}}" class="flex justify-between">
            <span class="font-medium">{{.Date}}</span>
            <span class="text-sm text-gray-500">{{.Age}}</span>
        </a>
        {{if .Summary}}<p class="text-sm text-gray-700 mt-1">{{.Summary}}</p>{{end}}
    </li>
    {{else}}
    <li class="px-4 py-8 text-center text-gray-500">No entries yet</li>
    {{end}}
</ul>
{{end}}`,

	"history_entry": `{{define "content"}}{{with .Entry}}
<a href="/history" class="text-sm text-amber-700">&larr; History</a>
<h1 class="text-2xl font-semibold mt-2 mb-6">{{.MoodIcon}} {{.Date}}</h1>
<section class="rounded bg-white p-4 shadow mb-4">
    <h2 class="font-semibold mb-2">What went well</h2>
    <p>{{.Good}}</p>
</section>
<section class="rounded bg-white p-4 shadow">
    <h2 class="font-semibold mb-2">What could be better</h2>
    <p>{{.Improve}}</p>
</section>
{{end}}{{end}}`,

	"settings": `{{define "content"}}{{with .Settings}}
<h1 class="text-2xl font-semibold mb-6">Settings</h1>
<form method="post" action="/settings/city" class="rounded bg-white p-4 shadow mb-4 space-y-3">
    <h2 class="font-semibold">City</h2>
    <input name="city" value="{{.City}}" class="w-full rounded border px-3 py-2">
    <button type="submit" class="rounded bg-amber-600 px-4 py-2 text-white">Save city</button>
</form>
<form method="post" action="/settings/notifications" class="rounded bg-white p-4 shadow space-y-3">
    <h2 class="font-semibold">Reminders</h2>
    <label class="block">Morning <input name="morning_time" type="time" value="{{.MorningTime}}" class="rounded border px-2 py-1"></label>
    <label class="block">Evening <input name="evening_time" type="time" value="{{.EveningTime}}" class="rounded border px-2 py-1"></label>
    <button type="submit" class="rounded bg-amber-600 px-4 py-2 text-white">Save times</button>
</form>
{{end}}{{end}}`,

	"error": `{{define "content"}}
<h1 class="text-2xl font-semibold mb-2">{{.Message}}</h1>
{{if .Detail}}<p class="text-gray-600">{{.Detail}}</p>{{end}}
<a href="/today" class="mt-4 inline-block text-amber-700">Back to today</a>
{{end}}`,
}
