package render

import (
	"github.com/goki/vulkan"
)

// VulkanConfig carries the application identity used at instance
// creation; swapchain and device selection are left to the pass chain,
// matching spec's "Vulkan context bring-up... specified only at the
// interface" scoping.
type VulkanConfig struct {
	ApplicationName string
	EnableValidation bool
}

// VulkanBackend sequences instance creation the way voodoo_vulkan.go
// sequences device/swapchain setup: a strict linear chain, each step
// wrapped into a BackendCreateError on failure. Swapchain acquisition
// and presentation are left to the pass chain's own draw calls; this
// backend only owns the instance lifetime and the before/after-frame
// bracket.
type VulkanBackend struct {
	instance vulkan.Instance
}

// NewVulkanBackend loads the Vulkan loader and creates one instance.
func NewVulkanBackend(cfg VulkanConfig) (*VulkanBackend, error) {
	if err := vulkan.Init(); err != nil {
		return nil, wrapErr("new_vulkan_backend", KindBackendCreateError, "vulkan.Init", err)
	}

	appName := cfg.ApplicationName
	if appName == "" {
		appName = "yage2"
	}

	appInfo := &vulkan.ApplicationInfo{
		SType:              vulkan.StructureTypeApplicationInfo,
		PApplicationName:   appName + "\x00",
		ApplicationVersion: vulkan.MakeVersion(1, 0, 0),
		PEngineName:        "yage2\x00",
		EngineVersion:      vulkan.MakeVersion(1, 0, 0),
		ApiVersion:         vulkan.ApiVersion10,
	}

	createInfo := &vulkan.InstanceCreateInfo{
		SType:            vulkan.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	var instance vulkan.Instance
	if res := vulkan.CreateInstance(createInfo, nil, &instance); res != vulkan.Success {
		return nil, newErr("new_vulkan_backend", KindBackendCreateError, "vkCreateInstance failed")
	}
	vulkan.InitInstance(instance)

	return &VulkanBackend{instance: instance}, nil
}

// BeforeFrame is a no-op: swapchain image acquisition belongs to the
// pass chain's first pass, which holds the device/swapchain handles
// this backend deliberately doesn't own.
func (b *VulkanBackend) BeforeFrame() error { return nil }

// AfterFrame is a no-op for the same reason; presentation is the pass
// chain's final draw call.
func (b *VulkanBackend) AfterFrame() error { return nil }

func (b *VulkanBackend) Close() error {
	if b.instance != nil {
		vulkan.DestroyInstance(b.instance, nil)
		b.instance = nil
	}
	return nil
}
