package main

import "github.com/Zachkp/portfolio/internal/projects"

var (
	AboutMe = `I love building software that’s both useful and fun, and I’m always curious about how things work behind the scenes.
	Most of my projects start with a simple idea and turn into a chance to learn something new, whether it’s exploring a
	different language, experimenting with tools, or solving tricky problems.
	When I’m not coding, you’ll usually find me training Muay Thai, shooting pool with friends,
	or chasing down a new challenge outside the screen.`

	// Projects feeds the filterable project grid. Category values double as
	// filter button labels.
	Projects = []projects.Project{
		{
			Slug:     "mail-tui",
			Title:    "Terminal Mail Client",
			Category: "cli",
			Summary: `A terminal-based email client built in Go with fuzzyfinder capabilities
	using the Charmbracelet TUI framework and go-imap.`,
			Tags: []string{"Go", "Bubble Tea", "IMAP"},
		},
		{
			Slug:     "music-tui",
			Title:    "Terminal Music Player",
			Category: "cli",
			Summary: `A terminal-based music streaming application built in Go with an elegant TUI
	interface, leveraging yt-dlp and mpv for seamless YouTube Music playback directly from the command line.`,
			Tags: []string{"Go", "yt-dlp", "mpv"},
		},
		{
			Slug:     "game-recommender",
			Title:    "Game Recommender",
			Category: "ml",
			Summary: `A machine learning-powered web application that uses TF-IDF vectorization and cosine
	similarity to recommend games based on content analysis, featuring interactive data visualizations and
	real-time filtering by user reviews and ratings.`,
			Tags: []string{"Python", "scikit-learn"},
		},
		{
			Slug:     "portfolio",
			Title:    "This Portfolio",
			Category: "web",
			Summary: `A server-rendered portfolio website built with Go, Gin and HTMX, where the contact
	form, notifications, theme and project filter all live on the server.`,
			Tags: []string{"Go", "Gin", "HTMX"},
		},
	}
)
