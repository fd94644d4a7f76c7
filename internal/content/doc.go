// Package content converts semantic content into the block and property
// payloads the content service accepts, and reads property values back.
//
// Text limits follow the service: a single rich-text segment carries at most
// MaxTextLength UTF-16 code units. Longer text is split across consecutive
// blocks (page bodies) or segments (record properties); it is never truncated.
package content
