// Package drm provides a library to interact with DRM
// (Direct Rendering Manager) and KMS (Kernel Mode Setting) interfaces.
// DRM is a low level interface for the graphics card (gpu). This package
// opens the device nodes and negotiates driver capabilities; the mode
// package enumerates KMS objects and their properties, and the property
// package wraps those properties into descriptors a display composition
// layer can query and validate before committing new values.
package drm
