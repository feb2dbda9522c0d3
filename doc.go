// Package main provides the entry point for the hosted-zone management
// service. It runs a web server using the Fiber framework that speaks the
// Route 53 XML protocol for creating and deleting hosted zones, changing
// resource record sets, and inspecting past changes. Zones are persisted
// as zone files on disk and every mutation is journaled for audit.
package main
