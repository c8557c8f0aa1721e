// Comfymcp exposes ComfyUI image-generation workflows as MCP tools. It loads
// a workflow JSON (editor or API format), discovers which nodes carry the
// prompt, output and dimension roles, and drives the submit/poll/fetch
// lifecycle against a ComfyUI server.
package comfymcp
