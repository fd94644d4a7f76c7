package content

import "strings"

const (
	blockParagraph = "paragraph"
	blockHeading1  = "heading_1"
	blockHeading2  = "heading_2"
	blockHeading3  = "heading_3"
	blockBullet    = "bulleted_list_item"
	blockCode      = "code"
)

// Page builds the payload of a documentation page. The title goes into
// titleProperty; prose becomes child blocks. Sections separated by blank
// lines become one block each, with a light markdown mapping for headings,
// bullets and fenced code. Building the same input twice yields equal
// payloads.
func Page(titleProperty, title, prose string) Payload {
	return Payload{
		Properties: map[string]PropertyValue{
			titleProperty: {Title: richText(title)},
		},
		Children: Blocks(prose),
	}
}

// Blocks converts prose into child blocks.
func Blocks(prose string) []Block {
	var (
		blocks    []Block
		paragraph []string
		code      []string
		codeLang  string
		inCode    bool
	)

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		blocks = append(blocks, textBlocks(blockParagraph, strings.Join(paragraph, "\n"))...)
		paragraph = nil
	}

	for _, line := range strings.Split(strings.ReplaceAll(prose, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)

		if inCode {
			if strings.HasPrefix(trimmed, "```") {
				blocks = append(blocks, codeBlocks(codeLang, strings.Join(code, "\n"))...)
				code, inCode = nil, false
				continue
			}
			code = append(code, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flush()
			inCode = true
			codeLang = codeLanguage(strings.TrimPrefix(trimmed, "```"))
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "### "):
			flush()
			blocks = append(blocks, textBlocks(blockHeading3, strings.TrimPrefix(trimmed, "### "))...)
		case strings.HasPrefix(trimmed, "## "):
			flush()
			blocks = append(blocks, textBlocks(blockHeading2, strings.TrimPrefix(trimmed, "## "))...)
		case strings.HasPrefix(trimmed, "# "):
			flush()
			blocks = append(blocks, textBlocks(blockHeading1, strings.TrimPrefix(trimmed, "# "))...)
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			flush()
			blocks = append(blocks, textBlocks(blockBullet, trimmed[2:])...)
		default:
			paragraph = append(paragraph, trimmed)
		}
	}

	// An unterminated fence keeps its text as code.
	if inCode && len(code) > 0 {
		blocks = append(blocks, codeBlocks(codeLang, strings.Join(code, "\n"))...)
	}
	flush()

	return blocks
}

func textBlocks(kind, text string) []Block {
	parts := splitText(text, MaxTextLength)
	out := make([]Block, 0, len(parts))
	for _, p := range parts {
		body := &TextBlock{RichText: []RichText{{Type: "text", Text: &Text{Content: p}}}}
		b := Block{Object: "block", Type: kind}
		switch kind {
		case blockHeading1:
			b.Heading1 = body
		case blockHeading2:
			b.Heading2 = body
		case blockHeading3:
			b.Heading3 = body
		case blockBullet:
			b.BulletedListItem = body
		default:
			b.Paragraph = body
		}
		out = append(out, b)
	}
	return out
}

func codeBlocks(lang, text string) []Block {
	parts := splitText(text, MaxTextLength)
	out := make([]Block, 0, len(parts))
	for _, p := range parts {
		out = append(out, Block{
			Object: "block",
			Type:   blockCode,
			Code: &CodeBlock{
				RichText: []RichText{{Type: "text", Text: &Text{Content: p}}},
				Language: lang,
			},
		})
	}
	return out
}

// codeLanguage maps a fence info string to a language the service accepts.
func codeLanguage(info string) string {
	switch lang := strings.ToLower(strings.TrimSpace(info)); lang {
	case "":
		return "plain text"
	case "sh", "shell":
		return "bash"
	case "env":
		return "plain text"
	case "ts":
		return "typescript"
	case "js":
		return "javascript"
	default:
		return lang
	}
}
