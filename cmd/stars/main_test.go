package main

import (
	"testing"

	"github.com/Uriopass/stars/analyzer"
	"github.com/Uriopass/stars/graph"
	"github.com/Uriopass/stars/pin"
)

func TestWorstEndpointPicksLargestArrivalPlusRequired(t *testing.T) {
	a := pin.TransitionPin{Pin: "OUT_A", Transition: pin.Rise}
	b := pin.TransitionPin{Pin: "OUT_B", Transition: pin.Rise}
	g := &graph.Graph{Outputs: []pin.TransitionPin{a, b}}
	result := analyzer.Result{
		Arrival:  map[pin.TransitionPin]float64{a: 1.0, b: 5.0},
		Required: map[pin.TransitionPin]float64{a: 1.0, b: 0.1},
	}

	got, ok := worstEndpoint(g, result)
	if !ok {
		t.Fatal("expected an endpoint to be found")
	}
	if got != b {
		t.Errorf("worstEndpoint() = %v, want %v (5.0+0.1=5.1 beats 1.0+1.0=2.0)", got, b)
	}
}

func TestWorstEndpointSkipsIncompleteEndpoints(t *testing.T) {
	a := pin.TransitionPin{Pin: "OUT_A", Transition: pin.Rise}
	g := &graph.Graph{Outputs: []pin.TransitionPin{a}}
	result := analyzer.Result{
		Arrival:  map[pin.TransitionPin]float64{},
		Required: map[pin.TransitionPin]float64{a: 1.0},
	}

	_, ok := worstEndpoint(g, result)
	if ok {
		t.Error("expected no endpoint to qualify: OUT_A has no arrival time")
	}
}

func TestWorstEndpointNoOutputs(t *testing.T) {
	g := &graph.Graph{}
	_, ok := worstEndpoint(g, analyzer.Result{})
	if ok {
		t.Error("expected false when the graph has no outputs")
	}
}
