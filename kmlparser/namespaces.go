package kmlparser

import (
	"regexp"
	"strings"
)

type namespaceDeclaration struct {
	Attribute      string
	URI            string
	declaredRegexp *regexp.Regexp
}

func newNamespaceDeclaration(attribute, uri string) namespaceDeclaration {
	return namespaceDeclaration{
		Attribute:      attribute,
		URI:            uri,
		declaredRegexp: regexp.MustCompile(`(^|\s)` + regexp.QuoteMeta(attribute) + `\s*=`),
	}
}

// declared on every repaired root tag, in this order
var wellKnownNamespaces = []namespaceDeclaration{
	newNamespaceDeclaration("xmlns", "http://www.opengis.net/kml/2.2"),
	newNamespaceDeclaration("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance"),
	newNamespaceDeclaration("xmlns:gx", "http://www.google.com/kml/ext/2.2"),
	newNamespaceDeclaration("xmlns:atom", "http://www.w3.org/2005/Atom"),
	newNamespaceDeclaration("xmlns:kml", "http://www.opengis.net/kml/2.2"),
}

var (
	rootTagRegexp        = regexp.MustCompile(`<((?:\w+:)?kml)(\s[^>]*|/)?>`)
	xmlDeclarationRegexp = regexp.MustCompile(`^\s*<\?xml[^>]*\?>`)
)

// RepairNamespaces makes sure the document has a <kml> root tag declaring all the well-known KML namespaces.
// The repair is textual: a document without a root tag is wrapped in one, otherwise missing declarations
// are added to the existing root tag. Everything else is left as it is.
func RepairNamespaces(text string) string {
	loc := rootTagRegexp.FindStringSubmatchIndex(text)
	if loc == nil {
		return wrapInRootTag(text)
	}

	tagName := text[loc[2]:loc[3]]
	var attributes string
	if loc[4] >= 0 {
		attributes = text[loc[4]:loc[5]]
	}

	selfClosing := strings.HasSuffix(attributes, "/")
	attributes = strings.TrimSuffix(attributes, "/")

	missing := missingDeclarations(attributes)
	if len(missing) == 0 {
		return text
	}

	sb := new(strings.Builder)
	sb.WriteString(text[:loc[0]])
	sb.WriteString("<")
	sb.WriteString(tagName)
	sb.WriteString(strings.TrimRight(attributes, " \t\r\n"))
	for _, declaration := range missing {
		sb.WriteString(" ")
		sb.WriteString(declaration)
	}
	if selfClosing {
		sb.WriteString("/")
	}
	sb.WriteString(">")
	sb.WriteString(text[loc[1]:])

	return sb.String()
}

func wrapInRootTag(text string) string {
	var declaration string
	if loc := xmlDeclarationRegexp.FindStringIndex(text); loc != nil {
		declaration = text[:loc[1]]
		text = text[loc[1]:]
	}

	var declarations []string
	for _, namespace := range wellKnownNamespaces {
		declarations = append(declarations, formatDeclaration(namespace))
	}

	return declaration + "<kml " + strings.Join(declarations, " ") + ">" + text + "</kml>"
}

func missingDeclarations(attributes string) []string {
	var missing []string
	for _, namespace := range wellKnownNamespaces {
		if namespace.declaredRegexp.MatchString(attributes) {
			continue
		}

		missing = append(missing, formatDeclaration(namespace))
	}

	return missing
}

func formatDeclaration(namespace namespaceDeclaration) string {
	return namespace.Attribute + `="` + namespace.URI + `"`
}
