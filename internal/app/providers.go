package app

import (
	// Provider packages register their creators via init().
	_ "legal-scribe/internal/app/api/demo"
	_ "legal-scribe/internal/app/api/elevenlabs"
	_ "legal-scribe/internal/app/api/openai"
)
