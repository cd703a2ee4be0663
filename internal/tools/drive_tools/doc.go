// Package drive_tools provides MCP (Model Context Protocol) tools for picking
// recordings from Google Drive.
//
// Available tools:
//   - drive_list_audio_files: List audio and MP4 files, newest first
//   - drive_status: Report whether a Drive token is stored
//
// Drive is connected with 'audioinsight drive login'. When Drive rejects the
// stored token it is cleared and the tools report that a new login is needed.
//
// Example tool usage:
//
//	drive_list_audio_files({
//	  max_results: 10,
//	  name_contains: "standup"
//	})
package drive_tools
