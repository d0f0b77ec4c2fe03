package mocks

import "poolbook/infras/otel"

// noopScope drops every span call so services run in tests with their
// tracing left in place.
type noopScope struct{}

func NewScope() otel.Scope {
	return noopScope{}
}

func (noopScope) End() {}

func (noopScope) AddEvent(string) {}

func (noopScope) SetAttribute(string, any) {}

func (noopScope) SetAttributes(map[string]any) {}

func (noopScope) TraceError(error) {}

func (noopScope) TraceIfError(error) {}
