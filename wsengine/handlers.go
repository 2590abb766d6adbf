package wsengine

import "github.com/phanxgames/marionette"

// handler decodes a request's arguments and returns the engine call to run.
// A nil result means the method returns nothing.
type handler func(a *args, ss *session) func(e marionette.Engine) any

var handlers = map[string]handler{
	// Actors.
	"CreateRectangleActor": func(a *args, _ *session) func(marionette.Engine) any {
		w, h := a.float(0), a.float(1)
		return func(e marionette.Engine) any { return e.CreateRectangleActor(w, h) }
	},
	"CreateRawActor": func(a *args, _ *session) func(marionette.Engine) any {
		verts := a.str(0)
		return func(e marionette.Engine) any { return e.CreateRawActor(verts) }
	},
	"CreatePolygonActor": func(a *args, _ *session) func(marionette.Engine) any {
		verts := a.str(0)
		return func(e marionette.Engine) any { return e.CreatePolygonActor(verts) }
	},
	"CreateCircleActor": func(a *args, _ *session) func(marionette.Engine) any {
		r, verts := a.float(0), a.str(1)
		return func(e marionette.Engine) any { return e.CreateCircleActor(r, verts) }
	},
	"DestroyActor": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.DestroyActor(id) }
	},
	"SetActorLayer": func(a *args, _ *session) func(marionette.Engine) any {
		id, layer := a.int(0), a.int(1)
		return func(e marionette.Engine) any { return e.SetActorLayer(id, layer) }
	},
	"GetActorLayer": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetActorLayer(id) }
	},
	"SetActorPhysicsLayer": func(a *args, _ *session) func(marionette.Engine) any {
		id, layer := a.int(0), a.int(1)
		return func(e marionette.Engine) any { return e.SetActorPhysicsLayer(id, layer) }
	},
	"GetActorPhysicsLayer": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetActorPhysicsLayer(id) }
	},
	"SetPhysicsVertices": func(a *args, _ *session) func(marionette.Engine) any {
		id, verts := a.int(0), a.str(1)
		return func(e marionette.Engine) any { return e.SetPhysicsVertices(id, verts) }
	},
	"SetRenderMode": func(a *args, _ *session) func(marionette.Engine) any {
		id, mode := a.int(0), marionette.RenderMode(a.int(1))
		return func(e marionette.Engine) any { return e.SetRenderMode(id, mode) }
	},
	"UpdateVertices": func(a *args, _ *session) func(marionette.Engine) any {
		id, verts := a.int(0), a.str(1)
		return func(e marionette.Engine) any { return e.UpdateVertices(id, verts) }
	},
	"GetVertices": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetVertices(id) }
	},
	"SetActorVisible": func(a *args, _ *session) func(marionette.Engine) any {
		id, v := a.int(0), a.bool(1)
		return func(e marionette.Engine) any { return e.SetActorVisible(id, v) }
	},
	"GetActorVisible": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetActorVisible(id) }
	},
	"SetActorOpacity": func(a *args, _ *session) func(marionette.Engine) any {
		id, o := a.int(0), a.float(1)
		return func(e marionette.Engine) any { return e.SetActorOpacity(id, o) }
	},
	"GetActorOpacity": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetActorOpacity(id) }
	},
	"SetActorPosition": func(a *args, _ *session) func(marionette.Engine) any {
		id, x, y := a.int(0), a.float(1), a.float(2)
		return func(e marionette.Engine) any { return e.SetActorPosition(id, x, y) }
	},
	"GetActorPosition": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetActorPosition(id) }
	},
	"SetActorRotation": func(a *args, _ *session) func(marionette.Engine) any {
		id, angle, rad := a.int(0), a.float(1), a.bool(2)
		return func(e marionette.Engine) any { return e.SetActorRotation(id, angle, rad) }
	},
	"GetActorRotation": func(a *args, _ *session) func(marionette.Engine) any {
		id, rad := a.int(0), a.bool(1)
		return func(e marionette.Engine) any { return e.GetActorRotation(id, rad) }
	},
	"SetActorColor": func(a *args, _ *session) func(marionette.Engine) any {
		id, r, g, b := a.int(0), a.int(1), a.int(2), a.int(3)
		return func(e marionette.Engine) any { return e.SetActorColor(id, r, g, b) }
	},
	"GetActorColor": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetActorColor(id) }
	},
	"SetActorTexture": func(a *args, _ *session) func(marionette.Engine) any {
		id, name := a.int(0), a.str(1)
		return func(e marionette.Engine) any { return e.SetActorTexture(id, name) }
	},
	"SetActorTextureRepeat": func(a *args, _ *session) func(marionette.Engine) any {
		id, x, y := a.int(0), a.float(1), a.float(2)
		return func(e marionette.Engine) any { return e.SetActorTextureRepeat(id, x, y) }
	},
	"GetActorTextureRepeat": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetActorTextureRepeat(id) }
	},
	"EnableActorPhysics": func(a *args, _ *session) func(marionette.Engine) any {
		id, m, f, el := a.int(0), a.float(1), a.float(2), a.float(3)
		return func(e marionette.Engine) any { return e.EnableActorPhysics(id, m, f, el) }
	},
	"DestroyPhysicsBody": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.DestroyPhysicsBody(id) }
	},
	"AttachTexture": func(a *args, _ *session) func(marionette.Engine) any {
		id, tex := a.int(0), a.str(1)
		w, h, x, y, angle := a.float(2), a.float(3), a.float(4), a.float(5), a.float(6)
		return func(e marionette.Engine) any { return e.AttachTexture(id, tex, w, h, x, y, angle) }
	},
	"RemoveAttachment": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.RemoveAttachment(id) }
	},
	"SetAttachmentVisible": func(a *args, _ *session) func(marionette.Engine) any {
		id, v := a.int(0), a.bool(1)
		return func(e marionette.Engine) any { return e.SetAttachmentVisible(id, v) }
	},
	"GetRectangleActorWidth": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetRectangleActorWidth(id) }
	},
	"GetRectangleActorHeight": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetRectangleActorHeight(id) }
	},
	"SetRectangleActorWidth": func(a *args, _ *session) func(marionette.Engine) any {
		id, w := a.int(0), a.float(1)
		return func(e marionette.Engine) any { return e.SetRectangleActorWidth(id, w) }
	},
	"SetRectangleActorHeight": func(a *args, _ *session) func(marionette.Engine) any {
		id, h := a.int(0), a.float(1)
		return func(e marionette.Engine) any { return e.SetRectangleActorHeight(id, h) }
	},
	"GetCircleActorRadius": func(a *args, _ *session) func(marionette.Engine) any {
		id := a.int(0)
		return func(e marionette.Engine) any { return e.GetCircleActorRadius(id) }
	},
	"SetCircleActorRadius": func(a *args, _ *session) func(marionette.Engine) any {
		id, r := a.int(0), a.float(1)
		return func(e marionette.Engine) any { return e.SetCircleActorRadius(id, r) }
	},

	// Animation.
	"CanAnimate": func(a *args, _ *session) func(marionette.Engine) any {
		prop := a.str(0)
		return func(e marionette.Engine) any { return e.CanAnimate(prop) }
	},
	"Animate": func(a *args, ss *session) func(marionette.Engine) any {
		id, prop, opts := a.int(0), a.str(1), a.str(2)
		onStep := ss.callback(EventStep, a.str(3))
		return func(e marionette.Engine) any { return e.Animate(id, prop, opts, onStep) }
	},
	"PreCalculateBez": func(a *args, _ *session) func(marionette.Engine) any {
		opts := a.str(0)
		return func(e marionette.Engine) any { return e.PreCalculateBez(opts) }
	},

	// Host.
	"Initialize": func(a *args, ss *session) func(marionette.Engine) any {
		w, h := a.int(0), a.int(1)
		ready := ss.signal(EventReady, a.str(2))
		level, target := marionette.LogLevel(a.int(3)), a.str(4)
		return func(e marionette.Engine) any {
			e.Initialize(w, h, ready, level, target)
			return nil
		}
	},
	"SetLogLevel": func(a *args, _ *session) func(marionette.Engine) any {
		level := marionette.LogLevel(a.int(0))
		return func(e marionette.Engine) any {
			e.SetLogLevel(level)
			return nil
		}
	},
	"SetCameraPosition": func(a *args, _ *session) func(marionette.Engine) any {
		x, y := a.float(0), a.float(1)
		return func(e marionette.Engine) any {
			e.SetCameraPosition(x, y)
			return nil
		}
	},
	"GetCameraPosition": func(_ *args, _ *session) func(marionette.Engine) any {
		return func(e marionette.Engine) any { return e.GetCameraPosition() }
	},
	"SetClearColor": func(a *args, _ *session) func(marionette.Engine) any {
		r, g, b := a.int(0), a.int(1), a.int(2)
		return func(e marionette.Engine) any {
			e.SetClearColor(r, g, b)
			return nil
		}
	},
	"GetClearColor": func(_ *args, _ *session) func(marionette.Engine) any {
		return func(e marionette.Engine) any { return e.GetClearColor() }
	},
	"LoadManifest": func(a *args, ss *session) func(marionette.Engine) any {
		manifest := a.str(0)
		done := ss.signal(EventManifest, a.str(1))
		return func(e marionette.Engine) any {
			e.LoadManifest(manifest, done)
			return nil
		}
	},
	"GetTextureSize": func(a *args, _ *session) func(marionette.Engine) any {
		name := a.str(0)
		return func(e marionette.Engine) any { return e.GetTextureSize(name) }
	},
	"SetRemindMeButton": func(a *args, _ *session) func(marionette.Engine) any {
		x, y, w, h := a.float(0), a.float(1), a.float(2), a.float(3)
		return func(e marionette.Engine) any {
			e.SetRemindMeButton(x, y, w, h)
			return nil
		}
	},

	// Renderer selection, for engines implementing marionette.RendererSelector.
	"AcceleratedAvailable": func(_ *args, _ *session) func(marionette.Engine) any {
		return func(e marionette.Engine) any {
			rs, ok := e.(marionette.RendererSelector)
			return ok && rs.AcceleratedAvailable()
		}
	},
	"SetRendererMode": func(a *args, _ *session) func(marionette.Engine) any {
		mode := marionette.RendererMode(a.int(0))
		return func(e marionette.Engine) any {
			if rs, ok := e.(marionette.RendererSelector); ok {
				rs.SetRendererMode(mode)
			}
			return nil
		}
	},
}
