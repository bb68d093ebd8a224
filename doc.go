/*
Package lattice is a capability-constrained generic service framework: a
family of small composition mechanisms that let heterogeneous concrete
types participate in shared generic machinery by proving, in their types,
that they carry the required behavior.

The components are independent and in-process:

  - pkg/capability: the behavioral contracts types opt into.
  - pkg/entity: the identity + self-validation contract.
  - pkg/repository: a generic keyed store over any entity, with
    pluggable backends under pkg/ports and pkg/adapters.
  - pkg/pipeline: compile-time-checked chains of type-transforming
    stages.
  - pkg/dispatch: priority-ordered fan-out of immutable events to
    independent handlers.
  - pkg/plugin: a name-keyed service locator over one uniform contract.

The root package bundles the runtime-dispatch components (registry and
dispatcher) behind a single composition root; statically-typed
components are instantiated per concrete type by the caller.
*/
package lattice
