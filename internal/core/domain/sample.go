package domain

import "time"

// SampleDocuments returns the built-in fallback document set used when an
// upload yields no usable text and the caller opted into substitution.
func SampleDocuments() []Document {
	now := time.Now()
	passages := []struct {
		title   string
		content string
	}{
		{"aries", "Aries: You will have good luck today. The stars align in your favor for success."},
		{"taurus", "Taurus: Be patient today. Good things come to those who wait. Your persistence will pay off."},
		{"gemini", "Gemini: Communication is key today. Reach out to loved ones and express your feelings."},
	}

	docs := make([]Document, len(passages))
	for i, p := range passages {
		docs[i] = Document{
			ID:        "sample-" + p.title,
			Path:      "sample://" + p.title,
			Title:     p.title,
			Content:   p.content,
			CreatedAt: now,
		}
	}
	return docs
}
