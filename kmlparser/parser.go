package kmlparser

import (
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownkml/kmzarchive"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
	"golang.org/x/net/html/charset"
)

var (
	ErrInvalidInput = errors.New("no KML text to parse")
)

// Parser turns KML and KMZ files into ownkml Documents.
// It holds no state between calls, so one Parser can be used concurrently.
type Parser struct {
	logger *logpkg.Logger
}

func NewParser(logger *logpkg.Logger) *Parser {
	return &Parser{logger}
}

// ParseKML parses KML text. Malformed documents, and documents the structured parser can't find any
// elements in, are read again by the salvage parser; so apart from empty input this doesn't fail.
func (p *Parser) ParseKML(text string) (*ownkml.Document, errorsx.Error) {
	if strings.TrimSpace(text) == "" {
		return nil, errorsx.Wrap(ErrInvalidInput)
	}

	result := p.parseStructured(text)
	if result.Outcome == stageOneOK {
		return result.Document, nil
	}

	p.logger.Info("structured KML parse unsuccessful (%s). Falling back to salvage parsing", result.Reason)

	document := Salvage(text)

	p.logger.Debug("salvage parser found %d elements", len(document.Elements))

	return document, nil
}

// ParseKMZ unpacks a KMZ archive and parses the KML document inside it.
// The images map is keyed by archive entry name, with data URIs as values.
func (p *Parser) ParseKMZ(data []byte) (document *ownkml.Document, images map[string]string, err errorsx.Error) {
	archive, err := kmzarchive.Unpack(data, p.logger)
	if err != nil {
		return nil, nil, errorsx.Wrap(err)
	}

	document, err = p.ParseKML(DecodeText(archive.Document))
	if err != nil {
		return nil, nil, errorsx.Wrap(err, "kmzEntry", archive.DocumentName)
	}

	return document, archive.Images, nil
}

type stageOneOutcome int

const (
	stageOneOK stageOneOutcome = iota
	stageOneFallbackNeeded
)

type stageOneResult struct {
	Outcome  stageOneOutcome
	Document *ownkml.Document
	Reason   string
}

func fallbackNeeded(reason string) stageOneResult {
	return stageOneResult{Outcome: stageOneFallbackNeeded, Reason: reason}
}

func (p *Parser) parseStructured(text string) stageOneResult {
	repaired := RepairNamespaces(text)

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = passthroughCharsetReader
	err := doc.ReadFromString(repaired)
	if err != nil {
		return fallbackNeeded("XML error: " + err.Error())
	}

	styleTable := styling.ResolveStyles(doc)
	elements := ExtractElements(doc, styleTable, p.logger)
	if len(elements) == 0 {
		return fallbackNeeded("no elements found")
	}

	p.logger.Debug("structured parser found %d styles and %d elements", len(styleTable), len(elements))

	name, description := documentMetadata(doc)

	return stageOneResult{
		Outcome: stageOneOK,
		Document: &ownkml.Document{
			Name:        name,
			Description: description,
			Elements:    elements,
			ParseMode:   ownkml.ParseModeStructured,
		},
	}
}

// documentMetadata takes the name and description from the first Document (or failing that, Folder) element
func documentMetadata(doc *etree.Document) (name, description string) {
	containerEl := doc.FindElement("//Document")
	if containerEl == nil {
		containerEl = doc.FindElement("//Folder")
	}
	if containerEl == nil {
		return "", ""
	}

	return childText(containerEl, "name"), childText(containerEl, "description")
}

// text handed to the XML parser is already UTF-8, whatever the declaration says
func passthroughCharsetReader(label string, input io.Reader) (io.Reader, error) {
	return input, nil
}

var encodingDeclarationRegexp = regexp.MustCompile(`^\s*<\?xml[^>]*encoding\s*=\s*["']([^"']+)["']`)

// DecodeText converts raw file contents to a UTF-8 string.
// Non-UTF-8 content is decoded using the encoding given in the XML declaration, where there is one.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	matches := encodingDeclarationRegexp.FindSubmatch(data)
	if matches == nil {
		return string(data)
	}

	encoding, _ := charset.Lookup(string(matches[1]))
	if encoding == nil {
		return string(data)
	}

	decoded, err := encoding.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}

	return string(decoded)
}
