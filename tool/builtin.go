package tool

// Builtins returns the locally executed tools: calculator, get_weather and
// web_search. HTTP options apply to the network-backed ones.
func Builtins(opts ...HTTPOption) []Registration {
	return []Registration{
		Calculator(),
		Weather(opts...),
		WebSearch(opts...),
	}
}
