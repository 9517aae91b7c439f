package engine

// LLM prompt templates — data only, no logic.

// promptDigest summarizes a numbered list of video comments.
// Args: current date, video ID, comment count, numbered comments.
const promptDigest = `You are summarizing viewer comments on a YouTube video.

Current date: %s
Video: %s
Comments shown: %d

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "summary": "2-3 sentence plain-text summary of what viewers are saying.",
  "sentiment": "positive",
  "themes": [
    {"theme": "Short label for a recurring topic", "comments": [1, 4]}
  ]
}

Rules:
- summary: plain text, 2-3 sentences, NO markdown
- sentiment: one of positive, negative, mixed, neutral
- themes: 3-6 recurring topics, each with 1-based indices of the comments raising it
- Answer in the language most of the comments are written in
- Do NOT invent opinions that are not present in the comments

Comments:
%s`
