// Package model contains the value types exchanged with the hub backend:
// asynchronous tasks, repositories, distributions, signing services and the
// collection version descriptor moved between repositories during approval.
//
// The types carry json tags matching the backend payloads so that the hub
// client can decode responses straight into them.
package model
