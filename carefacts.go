// Package carefacts provides a classification-and-indexing pipeline for a
// corpus of palliative care reference content. It normalizes scraped web
// pages and local reference files to plain text, classifies each document
// against a fixed Domain → topic → sub-topic taxonomy, persists the tagged
// records, and serves tag-filtered full-text search over the corpus.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, trafilatura/, goquery/).
package carefacts
