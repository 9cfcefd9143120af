package main

import "github.com/musicjoeyoung/MCP-ElevenLabs/cmd"

// @title           Podgen API
// @version         1.0.0
// @description     Generates two-voice audio episodes from code, files, discussions and project descriptions
// @contact.name    API Support
// @contact.url     https://github.com/musicjoeyoung/MCP-ElevenLabs
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
