// Package xmlcodec maps XML documents onto Go values.
//
// Mapping follows encoding/xml struct tags. On top of the tags a caller can
// require a specific document root, or supply field overrides that read a
// field from a differently named element or attribute, or skip it:
//
//	ov := xmlcodec.NewOverrides().
//		Add(reflect.TypeFor[Person](), "Name", xmlcodec.FieldOverride{Element: "FullName"})
//
//	p, err := xmlcodec.DeserializeCached[Person](s, r, "person-v2", ov)
//
// # Plans
//
// For every decode the Serializer needs a plan: a token rewrite table
// derived by reflection from the target type and its overrides. Plans are
// cached by (type, key). Decode uses no key, DecodeRoot uses the root name,
// and DecodeCached uses the key supplied by the caller. Overrides are never
// hashed or compared; a caller that builds a fresh but identical override
// set per call still hits the cache as long as it passes the same key.
//
// Stats exposes hit, miss and plan counters.
//
// # Empty Content
//
// A document with no root element (empty, whitespace, comments only) or
// whose root carries xsi:nil="true" decodes to the zero value without error.
//
// # Encodings
//
// UTF-8 and UTF-16 byte order marks are honoured. Other encodings named in
// the XML declaration are resolved through the IANA registry.
package xmlcodec
